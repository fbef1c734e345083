package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bugghost-client/apperrors"
	"bugghost-client/internal/auth"
	"bugghost-client/internal/config"
	"bugghost-client/internal/result"
	"bugghost-client/internal/sandbox"
	"bugghost-client/internal/session"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

// newRootCmd builds the command tree. The app context is created on first
// use so that help and version never touch the config.
func newRootCmd(load func() *appContext) *cobra.Command {
	var app *appContext
	get := func() *appContext {
		if app == nil {
			app = load()
		}
		return app
	}

	cmd := &cobra.Command{
		Use:   "bugghost",
		Short: "Bug Ghost AI, the AI debug replayer",
		Long: `Paste an error. Get reproducible code, tests, and a fix.

Run without arguments to open the interactive terminal UI.

Available subcommands:
  submit      Submit an error report for analysis
  sessions    List and show debug sessions
  run         Run code in the sandbox
  images      Check and build sandbox images
  login       Log in with GitHub
  teams       Manage teams
  config      Show or write the client configuration`,
		Version:       components.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(get())
		},
	}

	cmd.AddCommand(newSubmitCmd(get))
	cmd.AddCommand(newSessionsCmd(get))
	cmd.AddCommand(newRunCmd(get))
	cmd.AddCommand(newImagesCmd(get))
	cmd.AddCommand(newLoginCmd(get))
	cmd.AddCommand(newTeamsCmd(get))
	cmd.AddCommand(newConfigCmd(get))

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func parseView(name string) (result.View, bool) {
	switch strings.ToLower(name) {
	case "explanation", "root-cause":
		return result.ViewExplanation, true
	case "fix":
		return result.ViewFix, true
	case "repro":
		return result.ViewRepro, true
	case "test":
		return result.ViewTest, true
	case "context", "error":
		return result.ViewContext, true
	}
	return 0, false
}

// printSession writes the banner, the header and the requested views as
// markdown. An empty view list prints every view.
func printSession(w io.Writer, s *models.DebugSession, views []result.View, pretty bool) {
	p := result.New(s)

	fmt.Fprintf(w, "Session %s [%s]\n", s.ID, p.Banner().Label())
	if reason := p.FailureReason(); reason != "" {
		fmt.Fprintf(w, "Reason: %s\n", reason)
	}
	for _, f := range p.Header() {
		fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
	}
	fmt.Fprintln(w)

	if len(views) == 0 {
		views = result.Views
	}
	for _, v := range views {
		sec := p.SectionFor(v)
		if pretty {
			fmt.Fprint(w, result.Render(sec, 100))
		} else {
			fmt.Fprint(w, result.Markdown(sec))
		}
	}
}

func newSubmitCmd(get func() *appContext) *cobra.Command {
	var (
		req         models.DebugSessionCreate
		errorFile   string
		snippetFile string
		watch       bool
		asJSON      bool
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an error report for analysis",
		Long: `Submit an error report and print the resulting debug session.

Examples:
  bugghost submit --language Python --error-text "NameError: name 'x' is not defined"
  bugghost submit --language Go --error-file panic.txt --snippet-file main.go --watch
  go test ./... 2>&1 | bugghost submit --language Go --error-file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if errorFile != "" {
				text, err := readInput(errorFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.ErrorText = text
			}
			if snippetFile != "" {
				text, err := readInput(snippetFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.CodeSnippet = text
			}

			app := get()
			sub := session.NewSubmitter(app.client.Sessions)
			s, err := sub.Submit(cmd.Context(), req)
			var verrs apperrors.ValidationErrors
			switch {
			case errors.As(err, &verrs):
				for _, fe := range verrs {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Field, fe.Message)
				}
				return err
			case err != nil:
				return errors.New(sub.Error())
			}

			if watch && !s.Status.Terminal() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Session %s is processing, watching...\n", s.ID)
				watched, err := session.Watch(cmd.Context(), app.client.Sessions, s.ID, session.DefaultWatchOptions())
				if watched != nil {
					s = watched
				}
				if err != nil && !errors.Is(err, session.ErrStillProcessing) {
					return err
				}
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printSession(cmd.OutOrStdout(), s, nil, pretty)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Language, "language", "", "Language of the failing code ("+strings.Join(models.Languages, ", ")+")")
	cmd.Flags().StringVar(&req.RuntimeInfo, "runtime", "", "Runtime or framework, e.g. \"Node 20\"")
	cmd.Flags().StringVar(&req.ErrorText, "error-text", "", "Error message or stack trace")
	cmd.Flags().StringVar(&errorFile, "error-file", "", "Read the error text from a file (- for stdin)")
	cmd.Flags().StringVar(&snippetFile, "snippet-file", "", "Read the code snippet from a file (- for stdin)")
	cmd.Flags().StringVar(&req.ContextDescription, "context", "", "What you were trying to do")
	cmd.Flags().BoolVar(&watch, "watch", false, "Wait until the analysis finishes")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Render markdown for the terminal")

	return cmd
}

func newSessionsCmd(get func() *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and show debug sessions",
	}

	var listJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List debug sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := session.NewListLoader(get().client.Sessions)
			items, err := loader.Load(cmd.Context())
			if err != nil {
				return errors.New(loader.Error())
			}
			if listJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			if loader.State() == session.StateEmpty {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet.")
				return nil
			}
			for _, it := range items {
				snippet := strings.ReplaceAll(it.ErrorSnippet, "\n", " ")
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s  %-10s  %-14s  %s\n",
					it.ID, it.Status, it.Language, humanize.Time(it.CreatedAt.Time), snippet)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&listJSON, "json", false, "Print the sessions as JSON")

	var (
		watch     bool
		showJSON  bool
		pretty    bool
		viewNames []string
	)
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one debug session",
		Long: `Show one debug session.

Views: explanation, fix, repro, test, context. All views are printed unless
--view is given.

Examples:
  bugghost sessions show 3f1c...
  bugghost sessions show 3f1c... --view fix --view repro
  bugghost sessions show 3f1c... --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var views []result.View
			for _, name := range viewNames {
				v, ok := parseView(name)
				if !ok {
					return fmt.Errorf("unknown view %q", name)
				}
				views = append(views, v)
			}

			app := get()
			loader := session.NewDetailLoader(app.client.Sessions)
			s, err := loader.Load(cmd.Context(), args[0])
			if err != nil {
				return errors.New(loader.Error())
			}

			if watch && !s.Status.Terminal() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Session %s is processing, watching...\n", s.ID)
				watched, err := session.Watch(cmd.Context(), app.client.Sessions, s.ID, session.DefaultWatchOptions())
				if watched != nil {
					s = watched
				}
				if err != nil && !errors.Is(err, session.ErrStillProcessing) {
					return err
				}
			}

			if showJSON {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printSession(cmd.OutOrStdout(), s, views, pretty)
			return nil
		},
	}
	show.Flags().BoolVar(&watch, "watch", false, "Poll until the analysis finishes")
	show.Flags().BoolVar(&showJSON, "json", false, "Print the session as JSON")
	show.Flags().BoolVar(&pretty, "pretty", false, "Render markdown for the terminal")
	show.Flags().StringSliceVar(&viewNames, "view", nil, "Views to print (repeatable)")

	cmd.AddCommand(list, show)
	return cmd
}

func newRunCmd(get func() *appContext) *cobra.Command {
	var (
		language string
		file     string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run code in the sandbox",
		Long: `Run code in an isolated container (non-root, no network, resource limited).

Without --file the starter snippet for the language is run.

Examples:
  bugghost run --language python
  bugghost run --language java --file Main.java
  echo 'console.log(1)' | bugghost run --language javascript --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := sandbox.NewRunner(get().client.Runs)
			if err := runner.SetLanguage(language); err != nil {
				return err
			}
			if file != "" {
				code, err := readInput(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				runner.SetCode(code)
			}

			run, err := runner.Run(cmd.Context())
			if err != nil {
				return errors.New(runner.Error())
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), run)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRun(run))
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", sandbox.Python, "Sandbox language ("+strings.Join(sandbox.Languages, ", ")+")")
	cmd.Flags().StringVar(&file, "file", "", "Read the code from a file (- for stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the run as JSON")

	return cmd
}

func printImageStatus(w io.Writer, r *sandbox.Readiness, status models.ImageStatus) {
	for _, img := range sandbox.RequiredImages {
		state := "missing"
		if status[img] {
			state = "present"
		}
		fmt.Fprintf(w, "%-36s %s\n", img, state)
	}
	if r.Ready() {
		fmt.Fprintln(w, "Images ready")
	} else {
		fmt.Fprintln(w, "Images missing")
	}
}

func newImagesCmd(get func() *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Check and build sandbox images",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Report whether every sandbox image is present",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			images := get().client.Sandbox
			r := sandbox.NewReadiness(images)
			o := r.CallCheck(cmd.Context(), r.BeginCheck())
			r.CompleteCheck(o)
			if o.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "image check failed: %s\n", apperrors.Message(o.Err, "unknown error"))
			}
			printImageStatus(cmd.OutOrStdout(), r, o.Status)
			return nil
		},
	}

	build := &cobra.Command{
		Use:   "build",
		Short: "Build the python, javascript and java sandbox images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := sandbox.NewReadiness(get().client.Sandbox)
			fmt.Fprintln(cmd.ErrOrStderr(), "Building images...")
			if err := r.BuildAll(cmd.Context()); err != nil {
				return errors.New(r.Error())
			}
			if logs := r.Logs(); logs != "" {
				fmt.Fprintln(cmd.OutOrStdout(), logs)
			}
			if err := r.BuildErrors(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
			}
			if r.Ready() {
				fmt.Fprintln(cmd.OutOrStdout(), "Images ready")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Images missing")
			}
			return nil
		},
	}

	cmd.AddCommand(check, build)
	return cmd
}

func newLoginCmd(get func() *appContext) *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with GitHub",
		Long: `Complete a GitHub login.

Without --code a local callback listener is started and the command waits for
the browser redirect. The identity is kept for the lifetime of the process only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			out := cmd.OutOrStdout()

			if code == "" {
				l, err := auth.Listen(app.settings.CallbackAddr)
				if err != nil {
					return err
				}
				defer l.Close()

				fmt.Fprintf(out, "Open %s in your browser.\n", app.client.Auth.LoginURL())
				fmt.Fprintf(out, "Waiting for the redirect to %s ...\n", l.RedirectURL())
				code, err = l.Wait(cmd.Context())
				if err != nil {
					return err
				}
			}

			user, err := auth.NewCallback(app.client.Auth, app.store).Complete(cmd.Context(), code)
			if err != nil {
				var authErr *apperrors.AuthError
				if errors.As(err, &authErr) {
					return errors.New(authErr.Message)
				}
				return err
			}
			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.DisplayName(), user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "GitHub authorization code")
	return cmd
}

func newTeamsCmd(get func() *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Manage teams",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			teams, err := get().client.Teams.List(cmd.Context())
			if err != nil {
				return errors.New(apperrors.Message(err, teamsLoadFailedMessage))
			}
			sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
			for _, t := range teams {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", t.ID, t.Name)
			}
			return nil
		},
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().client.Teams.Create(cmd.Context(), args[0]); err != nil {
				return errors.New(apperrors.Message(err, teamCreateFailedMessage))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created team %s\n", args[0])
			return nil
		},
	}

	var role string
	addMember := &cobra.Command{
		Use:   "add-member <team-id> <user-id>",
		Short: "Add a user to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != models.RoleMember && role != models.RoleAdmin {
				return fmt.Errorf("role must be %s or %s", models.RoleMember, models.RoleAdmin)
			}
			if err := get().client.Teams.AddMember(cmd.Context(), args[0], args[1], role); err != nil {
				return errors.New(apperrors.Message(err, memberAddFailedMessage))
			}
			fmt.Fprintln(cmd.OutOrStdout(), memberAddedMessage)
			return nil
		},
	}
	addMember.Flags().StringVar(&role, "role", models.RoleMember, "Role of the new member (member, admin)")

	cmd.AddCommand(list, create, addMember)
	return cmd
}

func newConfigCmd(get func() *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved client configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := get().settings
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_url:       %s\n", s.APIURL)
			timeout := "none"
			if s.Timeout > 0 {
				timeout = s.Timeout.String()
			}
			fmt.Fprintf(out, "timeout:       %s\n", timeout)
			fmt.Fprintf(out, "callback_addr: %s\n", s.CallbackAddr)
			source := s.Source
			if source == "" {
				source = "(defaults and environment)"
			}
			fmt.Fprintf(out, "source:        %s\n", source)
			return nil
		},
	}

	var path string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.ConfigFilename
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Save(path, get().settings); err != nil {
				return err
			}
			abs, _ := filepath.Abs(path)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", abs)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "Config file to write (default ./"+config.ConfigFilename+")")

	cmd.AddCommand(initCmd)
	return cmd
}
