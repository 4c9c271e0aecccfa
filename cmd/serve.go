package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillgap/internal/server"
	"github.com/abhisek/skillgap/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz and tutor over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if !cfg.Verbose {
			gin.SetMode(gin.ReleaseMode)
		}

		bank, err := loadBank()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// The quiz works without a chat backend; tutor routes report 503.
		var gw *tutor.Gateway
		if g, err := newTutor(ctx, st.EventRepo()); err != nil {
			logger.Warn("tutor disabled", zap.Error(err))
		} else {
			gw = g
		}

		srv, err := server.New(server.Deps{
			Bank:       bank,
			Assessment: newAssessment(st.EventRepo()),
			Tutor:      gw,
			Logger:     logger.Named("http"),
		}, server.Options{
			SessionSecret: cfg.Server.SessionSecret,
			TutorRate:     cfg.Server.TutorRate,
			TutorBurst:    cfg.Server.TutorBurst,
			SessionTTL:    cfg.Server.SessionTTL,
			MaxSessions:   cfg.Server.MaxSessions,
		})
		if err != nil {
			return err
		}

		cmd.Printf("Listening on %s\n", cfg.Server.Addr)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
