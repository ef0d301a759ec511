package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/journalkeeper/internal/app"
	"github.com/dmitrijs2005/journalkeeper/internal/config"
	"github.com/dmitrijs2005/journalkeeper/internal/models"
	"github.com/dmitrijs2005/journalkeeper/internal/services"
)

// nowFn and tzOffsetFn are test seams for wall-clock dependent commands.
var nowFn = func() int64 { return time.Now().Unix() }
var tzOffsetFn = func() float64 {
	_, off := time.Now().Zone()
	return float64(off) / 3600
}

type App struct {
	config *config.Config

	entries   *services.EntryService
	labels    *services.LabelService
	events    *services.EventService
	settings  *services.SettingsService
	backup    *services.BackupService
	users     *services.UserService
	wordIndex *services.WordIndexService

	auth   *models.Auth
	token  string
	reader *bufio.Reader

	closeFn func() error
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	bundle, err := app.New(ctx, c)
	if err != nil {
		return nil, err
	}

	return &App{
		config:    c,
		entries:   bundle.Entries,
		labels:    bundle.Labels,
		events:    bundle.Events,
		settings:  bundle.Settings,
		backup:    bundle.Backup,
		users:     bundle.Users,
		wordIndex: bundle.WordIndex,
		reader:    bufio.NewReader(os.Stdin),
		closeFn:   bundle.Close,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.auth != nil
}

func (a *App) getStatus() string {
	if a.auth == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.auth.Username)
}

// Run starts the REPL and blocks until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	if a.closeFn != nil {
		defer a.closeFn()
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
