package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/tuido/internal/config"
	"github.com/jask/tuido/internal/controller"
	"github.com/jask/tuido/internal/database"
	"github.com/jask/tuido/internal/database/repository"
	"github.com/jask/tuido/internal/msg"
	"github.com/jask/tuido/internal/sched"
	"github.com/jask/tuido/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	todos := repository.NewTodoRepo(db)

	// The scheduler exists before either collaborator so both can be handed
	// its enqueue handle at construction time.
	s := sched.New()
	ctrl := controller.New(ctx, todos, s)
	view := tui.NewView()
	s.SetView(view)
	s.SetController(ctrl)

	// Initial route: populates the list and the footer before the first frame.
	s.Enqueue(msg.ToController{Msg: msg.SetPage{Hash: ""}})

	p := tea.NewProgram(tui.New(cfg, s, view), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
