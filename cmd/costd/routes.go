package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"

	getcalc "fabric-cost/http-server/calculations/get"
	"fabric-cost/http-server/calculations/preview"
	removecalc "fabric-cost/http-server/calculations/remove"
	savecalc "fabric-cost/http-server/calculations/save"
	updatecalc "fabric-cost/http-server/calculations/update"
	getchat "fabric-cost/http-server/chat/get"
	removechat "fabric-cost/http-server/chat/remove"
	"fabric-cost/http-server/chat/send"
	getconstants "fabric-cost/http-server/constants/get"
	upconstants "fabric-cost/http-server/constants/update"
	generate_excel "fabric-cost/http-server/generate-report/generate-excel"
	generate_pdf "fabric-cost/http-server/generate-report/generate-pdf"
	"fabric-cost/http-server/parameters/parse"
	getstatistics "fabric-cost/http-server/statistics/get"
	"fabric-cost/http-server/sync/trigger"
	"fabric-cost/internal/chat"
	"fabric-cost/internal/config"
	"fabric-cost/internal/metrics"
	"fabric-cost/internal/middleware/auth"
	"fabric-cost/internal/service/calculation"
	"fabric-cost/internal/service/cloudsync"
	genexcel "fabric-cost/internal/service/generate-excel"
	genpdf "fabric-cost/internal/service/generate-pdf"
	"fabric-cost/internal/service/statistics"
)

type dependencies struct {
	calculations *calculation.Service
	statistics   *statistics.Service
	excel        *genexcel.GenerateExcelService
	pdf          *genpdf.GeneratePDFService
	chat         *chat.Client
	metrics      *metrics.Metrics
	// nil unless the local store syncs to a remote one
	syncer *cloudsync.Service
}

func routes(cfg config.Config, log *slog.Logger, deps dependencies) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	if deps.metrics != nil {
		router.Handle("/metrics", deps.metrics.Handler())
	}

	// расчёты
	router.Post("/api/calculations/preview", preview.PreviewCalculation(log, deps.calculations))
	router.Post("/api/calculations", savecalc.SaveCalculation(log, deps.calculations))
	router.Get("/api/calculations", getcalc.GetCalculations(log, deps.calculations))
	router.Get("/api/calculations/{id}", getcalc.GetCalculation(log, deps.calculations))
	router.Put("/api/calculations/{id}", updatecalc.UpdateCalculation(log, deps.calculations))
	router.Delete("/api/calculations/{id}", removecalc.DeleteCalculation(log, deps.calculations))

	router.Post("/api/parameters/parse", parse.ParseParameters(log, deps.calculations))
	router.Get("/api/statistics", getstatistics.GetStatistics(log, deps.statistics))
	router.Get("/api/constants", getconstants.GetConstants(log, deps.calculations))

	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, deps.excel))
	router.Get("/api/report/pdf/{id}", generate_pdf.GenerateReportPDF(log, deps.pdf))

	router.Get("/api/chat/conversations", getchat.GetConversations(log, deps.chat))
	router.Get("/api/chat/conversations/{id}/messages", getchat.GetMessages(log, deps.chat))
	router.Post("/api/chat/messages", send.SendMessage(log, deps.chat))
	router.Delete("/api/chat/conversations/{id}", removechat.DeleteConversation(log, deps.chat))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Put("/constants", upconstants.UpdateConstantsAdmin(log, deps.calculations))
	if deps.syncer != nil {
		adminRouter.Post("/sync", trigger.TriggerSync(log, deps.syncer))
	}

	router.Mount("/api/admin", adminRouter)

	return router
}
