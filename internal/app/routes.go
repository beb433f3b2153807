package app

import (
	"github.com/jpbalagtas/kusinakit/internal/config"
	"github.com/jpbalagtas/kusinakit/internal/health"
	"github.com/jpbalagtas/kusinakit/internal/middleware"
	"github.com/jpbalagtas/kusinakit/internal/platform/router"
	"github.com/jpbalagtas/kusinakit/internal/platform/validation"
	"github.com/jpbalagtas/kusinakit/internal/recipe"
)

func mountRecipeRoutes(r router.Router, handler *recipe.Handler, validator validation.Validator, cfg *config.Options) {
	uploadCfg := cfg.Upload
	maxBodyBytes := cfg.Server.MaxBodyBytes

	r.Group("/api/v1", func(gr router.Router) {
		gr.Get("/getRecipes", handler.List)
		gr.Post("/createRecipe", handler.Create,
			middleware.SaveUpload("image", uploadCfg.Dir, uploadCfg.MaxBytes),
			middleware.DecodeFormField[recipe.CreateRequest]("details"),
			middleware.ValidateInput[recipe.CreateRequest](validator))
		gr.Patch("/updateRecipe/{id}", handler.Update,
			middleware.CheckContentType,
			middleware.DecodePayload[recipe.UpdateRequest](maxBodyBytes))
		gr.Delete("/deleteRecipe/{id}", handler.Delete)
		gr.Get("/images/{id}", handler.Image)
	})
}

func mountHealthRoutes(r router.Router, handler *health.Handler) {
	r.Group("/health", func(gr router.Router) {
		gr.Get("/live", handler.Live)
		gr.Get("/ready", handler.Ready)
	})
	r.Get("/metrics", handler.Metrics)
}
