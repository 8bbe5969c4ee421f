package backend

import (
	"context"
	"net/http"
)

type ArticlePayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"categoryId"`
	Author     string `json:"author"`
	Source     string `json:"source"`
}

func (c *Client) ListArticles(ctx context.Context) (any, error) {
	return c.get(ctx, "/api/articles")
}

func (c *Client) Article(ctx context.Context, id string) (any, error) {
	return c.get(ctx, "/api/articles/"+id)
}

func (c *Client) CreateArticle(ctx context.Context, p ArticlePayload) (any, error) {
	return c.do(ctx, http.MethodPost, "/api/articles", p)
}

func (c *Client) UpdateArticle(ctx context.Context, id string, p ArticlePayload) (any, error) {
	return c.do(ctx, http.MethodPut, "/api/articles/"+id, p)
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/articles/"+id, nil)
	return err
}

func (c *Client) ListCategories(ctx context.Context) (any, error) {
	return c.get(ctx, "/api/categories")
}

func (c *Client) CreateCategory(ctx context.Context, name string) (any, error) {
	return c.do(ctx, http.MethodPost, "/api/categories", map[string]string{"name": name})
}
