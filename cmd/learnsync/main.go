package main

import (
	"fmt"
	"os"

	"github.com/ytget/learnsync/internal/catalog"
	"github.com/ytget/learnsync/internal/config"
	"github.com/ytget/learnsync/internal/logging"
	"github.com/ytget/learnsync/internal/platform"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppName   = "learnsync"
	ConfigEnv = "LEARNSYNC_CONFIG"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv(ConfigEnv)
	if path == "" {
		path = config.DefaultSettingsFile
	}
	settings, err := config.Load(path)
	if err != nil {
		return err
	}

	log, err := logging.New(settings.GetLogMode())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()
	log.Info("starting", "app", AppName, "version", version, "settings", settings.Path())

	materialDir := settings.GetMaterialDirectory()
	if err := platform.CreateDirectoryIfNotExists(materialDir); err != nil {
		return fmt.Errorf("failed to ensure material dir: %w", err)
	}

	policies, err := settings.GetOverwritePolicies()
	if err != nil {
		return err
	}
	store := catalog.NewFileStore(settings.GetCatalogFile(), settings.GetCatalogFormat())

	cat, err := catalog.Open(store,
		catalog.WithProber(platform.FSProber{}),
		catalog.WithPolicies(policies),
		catalog.WithLogger(log),
	)
	if err != nil {
		return err
	}

	report(log, cat)
	return nil
}

// report logs the completion state of every registered course
func report(log *logging.Logger, cat *catalog.Catalog) {
	p := cat.Prober()
	for _, course := range cat.Courses() {
		log.Info("course",
			"num", course.Num,
			"name", course.Name,
			"status", course.Status(p).String(),
			"modules_completed", course.CompletedModules(p),
			"modules_expected", course.ExpectedModules,
		)
	}

	progress := cat.Progress()
	log.Info("progress",
		"courses", fmt.Sprintf("%d/%d", progress.Courses.Completed, progress.Courses.Expected),
		"modules", fmt.Sprintf("%d/%d", progress.Modules.Completed, progress.Modules.Expected),
		"lessons", fmt.Sprintf("%d/%d", progress.Lessons.Completed, progress.Lessons.Expected),
		"percent", fmt.Sprintf("%.1f", progress.Lessons.Percent()),
		"done", progress.Done(),
	)
}
