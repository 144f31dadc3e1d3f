package rest

import "net/http"

// Handlers groups every handler mounted by NewRouter.
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Lexicon    *LexiconHandler
	Inflection *InflectionHandler
	Prediction *PredictionHandler
	Export     *ExportHandler
	History    *HistoryHandler
}

// NewRouter registers the API routes. Middleware is applied by the caller.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /auth/login", h.Auth.Login)
	mux.HandleFunc("GET /auth/me", h.Auth.Me)

	lx := h.Lexicon
	mux.HandleFunc("GET /api/lexemes", lx.ListLexemes)
	mux.HandleFunc("POST /api/lexemes", lx.CreateLexeme)
	mux.HandleFunc("POST /api/lexemes/checked", lx.SetLexemesChecked)
	mux.HandleFunc("GET /api/lexemes/{id}", lx.GetLexeme)
	mux.HandleFunc("PATCH /api/lexemes/{id}", lx.UpdateLexeme)
	mux.HandleFunc("DELETE /api/lexemes/{id}", lx.DeleteLexeme)
	mux.HandleFunc("POST /api/lexemes/{id}/examples", lx.AddExample)
	mux.HandleFunc("POST /api/lexemes/{id}/stems", lx.AddStem)
	mux.HandleFunc("POST /api/lexemes/{id}/paradigms", lx.AddMiniParadigm)
	mux.HandleFunc("POST /api/lexemes/{id}/affiliations", lx.AddAffiliation)
	mux.HandleFunc("GET /api/lexemes/{id}/inflections", h.Inflection.Inflections)
	mux.HandleFunc("GET /api/lexemes/{id}/history", h.History.Lexeme)

	mux.HandleFunc("GET /api/relations", lx.ListRelations)
	mux.HandleFunc("POST /api/relations", lx.CreateRelation)
	mux.HandleFunc("POST /api/relations/checked", lx.SetRelationsChecked)
	mux.HandleFunc("GET /api/relations/{id}", lx.GetRelation)
	mux.HandleFunc("PATCH /api/relations/{id}", lx.UpdateRelation)
	mux.HandleFunc("DELETE /api/relations/{id}", lx.DeleteRelation)
	mux.HandleFunc("POST /api/relations/{id}/examples", lx.AddRelationExample)
	mux.HandleFunc("POST /api/relations/{id}/sources", lx.AddSource)
	mux.HandleFunc("GET /api/relations/{id}/history", h.History.Relation)

	mux.HandleFunc("DELETE /api/examples/{id}", lx.DeleteExample)
	mux.HandleFunc("DELETE /api/stems/{id}", lx.DeleteStem)
	mux.HandleFunc("DELETE /api/paradigms/{id}", lx.DeleteMiniParadigm)
	mux.HandleFunc("DELETE /api/affiliations/{id}", lx.DeleteAffiliation)
	mux.HandleFunc("DELETE /api/relation-examples/{id}", lx.DeleteRelationExample)
	mux.HandleFunc("DELETE /api/sources/{id}", lx.DeleteSource)

	mux.HandleFunc("POST /api/predictions", h.Prediction.Predict)
	mux.HandleFunc("GET /api/analyze", h.Inflection.Analyze)
	mux.HandleFunc("GET /api/export", h.Export.Export)
	mux.HandleFunc("GET /api/history", h.History.Recent)

	return mux
}
