package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/awarehub/console/internal/poll"
	"github.com/awarehub/console/internal/survey"
)

// Mount attaches the console API under the given router. Middleware (auth,
// logging, CORS, metrics) is the caller's concern.
func Mount(r chi.Router, articles ArticleService, surveys survey.Service, polls *poll.Engine, now poll.Clock) {
	r.Route("/api/articles", func(ar chi.Router) {
		ar.Get("/", GetArticlesHandler(articles))
		ar.Post("/", CreateArticleHandler(articles, surveys))
		ar.Get("/{articleID}", GetArticleHandler(articles))
		ar.Put("/{articleID}", UpdateArticleHandler(articles, surveys))
		ar.Delete("/{articleID}", DeleteArticleHandler(articles))
	})

	r.Route("/api/categories", func(cr chi.Router) {
		cr.Get("/", GetCategoriesHandler(articles))
		cr.Post("/", CreateCategoryHandler(articles))
	})

	r.Route("/api/surveys", func(sr chi.Router) {
		sr.Get("/article/{articleID}", SurveyByArticleHandler(surveys))
		sr.Post("/article/{articleID}/grade", GradeSurveyHandler(surveys))
	})

	r.Route("/api/polls", func(pr chi.Router) {
		pr.Get("/", GetPollsHandler(polls, now))
		pr.Post("/", CreatePollHandler(polls))
		pr.Post("/{pollID}/vote", VoteHandler(polls))
		pr.Get("/{pollID}/results", PollResultsHandler(polls))
		pr.Delete("/{pollID}", DeletePollHandler(polls))
	})
}
