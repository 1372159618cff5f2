// Command token prints a dashboard API token for an operator role.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func issue(w io.Writer, cfg *config.Config, subject, role string) error {
	service, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		return err
	}
	token, err := service.GenerateToken(subject, models.Role(role))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

func main() {
	subject := flag.String("subject", "dashboard", "token subject")
	role := flag.String("role", string(models.RoleViewer), "admin, manager, operator or viewer")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	if err := issue(os.Stdout, cfg, *subject, *role); err != nil {
		log.WithError(err).Fatal("Failed to issue token")
	}
}
