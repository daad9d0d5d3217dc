package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/ourjournal/app"
	"github.com/CrestNiraj12/ourjournal/infra/auth"
	"github.com/CrestNiraj12/ourjournal/infra/blob"
	"github.com/CrestNiraj12/ourjournal/infra/config"
	"github.com/CrestNiraj12/ourjournal/infra/editor"
	"github.com/CrestNiraj12/ourjournal/infra/log"
	"github.com/CrestNiraj12/ourjournal/infra/postgres"
	"github.com/CrestNiraj12/ourjournal/infra/supabase"
	"github.com/CrestNiraj12/ourjournal/infra/upload"
	"github.com/CrestNiraj12/ourjournal/tui"
	"github.com/CrestNiraj12/ourjournal/web"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliServe
	cliVersion
	cliHelp
	cliInvalid
)

func parseCLIArgs(args []string) (cliMode, string) {
	if len(args) == 0 {
		return cliRun, ""
	}

	switch args[0] {
	case "serve":
		return cliServe, ""
	case "--version", "-version", "-v":
		return cliVersion, ""
	case "--help", "-h", "help":
		return cliHelp, ""
	default:
		return cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(args, " "))
	}
}

func usage() string {
	return "Usage: ourjournal [serve] [--version|-version|-v] [--help|-h]\n\n" +
		"  (no arguments)  open the journal in the terminal\n" +
		"  serve           run the web gateway on OURJOURNAL_ADDR"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	mode, msg := parseCLIArgs(os.Args[1:])
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("Our Journal %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return
	case cliHelp:
		fmt.Println(usage())
		return
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if mode == cliServe {
		err = runServe(cfg)
	} else {
		err = runTUI(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ourjournal: %v\n", err)
		os.Exit(1)
	}
}

// stores holds the post and profile backends. A database URL selects direct
// Postgres; otherwise the hosted backend serves both.
type stores struct {
	posts    app.PostService
	profiles app.ProfileService
	close    func()
}

func openStores(ctx context.Context, cfg config.Config, client *supabase.Client) (stores, error) {
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		store := postgres.NewStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return stores{}, err
		}
		return stores{posts: store, profiles: store, close: pool.Close}, nil
	}
	if client == nil {
		return stores{close: func() {}}, nil
	}
	return stores{
		posts:    supabase.NewPostService(client),
		profiles: supabase.NewProfileService(client),
		close:    func() {},
	}, nil
}

func runTUI(cfg config.Config) error {
	if !cfg.BackendConfigured() {
		return errors.New("OURJOURNAL_BACKEND_URL and OURJOURNAL_BACKEND_KEY must be set")
	}
	// The screen belongs to Bubble Tea from here on.
	log.Discard()

	ctx := context.Background()
	client := supabase.NewClient(cfg.BackendURL, cfg.BackendKey)
	authSvc := supabase.NewAuthService(client)
	st, err := openStores(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer st.close()

	keeper := auth.NewKeeper(auth.NewSessionStore(cfg.SessionPath), authSvc, st.profiles)

	rootModel := tui.NewApp(tui.Deps{
		Sessions:       keeper,
		Accounts:       authSvc,
		Posts:          st.posts,
		Uploads:        upload.NewClient(cfg.GatewayURL),
		Editor:         editor.NewEnvEditor(),
		Location:       time.Local,
		SignUpRedirect: cfg.RedirectURL,
	})

	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runServe(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := web.Deps{
		Images:      blob.NewStore(cfg.BlobURL, cfg.BlobToken),
		RedirectURL: cfg.RedirectURL,
		Location:    time.Local,
	}

	var client *supabase.Client
	if cfg.BackendConfigured() {
		client = supabase.NewClient(cfg.BackendURL, cfg.BackendKey)
		deps.Auth = supabase.NewAuthService(client)
	} else {
		log.Warn.Println("backend is not configured; pages will report a configuration error")
	}
	st, err := openStores(ctx, cfg, client)
	if err != nil {
		return err
	}
	defer st.close()
	deps.Posts, deps.Profiles = st.posts, st.profiles

	if !cfg.UploadConfigured() {
		log.Warn.Println("OURJOURNAL_BLOB_TOKEN is not set; image uploads are disabled")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info.Printf("gateway listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info.Println("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
