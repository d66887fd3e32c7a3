// mdo is the hierarchical task manager CLI.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MarisaKirisame/mdo/internal/config"
	"github.com/MarisaKirisame/mdo/internal/db"
	"github.com/MarisaKirisame/mdo/internal/events"
	"github.com/MarisaKirisame/mdo/internal/ui"
	"github.com/MarisaKirisame/mdo/internal/when"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Styles for CLI output
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6370"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "mdo",
		Short:   "Hierarchical task manager",
		Long:    "Nested tasks with keyboard drag-and-drop, in your terminal.",
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runTUI(); err != nil {
				fail(err)
			}
		},
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// add
	var whenExpr string
	addCmd := &cobra.Command{
		Use:   "add <title> [parent-id]",
		Short: "Add a task, optionally under a parent",
		Args:  cobra.RangeArgs(1, 2),
		Run: func(cmd *cobra.Command, args []string) {
			database, emitter := openStore()
			defer database.Close()

			parentRef := ""
			if len(args) == 2 {
				parentRef = args[1]
			}
			out, err := runAdd(database, emitter, args[0], parentRef, whenExpr, when.Today())
			if err != nil {
				fail(err)
			}
			fmt.Println(successStyle.Render(out))
		},
	}
	addCmd.Flags().StringVar(&whenExpr, "when", "", "Due date (today, tomorrow, every friday, 5-1, ...)")
	rootCmd.AddCommand(addCmd)

	// list
	listCmd := &cobra.Command{
		Use:   "list [id]",
		Short: "Show the task tree, or the subtree under a task",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			database, _ := openStore()
			defer database.Close()

			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			out, err := runList(database, ref)
			if err != nil {
				fail(err)
			}
			fmt.Print(out)
		},
	}
	rootCmd.AddCommand(listCmd)

	// do
	doCmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			database, emitter := openStore()
			defer database.Close()

			out, err := runDo(database, emitter, args[0])
			if err != nil {
				fail(err)
			}
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		},
	}
	rootCmd.AddCommand(doCmd)

	// move
	moveCmd := &cobra.Command{
		Use:   "move <id> <parent-id|-> <index>",
		Short: "Move a task under a new parent (- for the top level)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			database, emitter := openStore()
			defer database.Close()

			position, err := strconv.Atoi(args[2])
			if err != nil {
				fail(fmt.Errorf("index must be a number, got %q", args[2]))
			}
			out, err := runMove(database, emitter, args[0], args[1], position)
			if err != nil {
				fail(err)
			}
			fmt.Println(successStyle.Render(out))
		},
	}
	rootCmd.AddCommand(moveCmd)

	// clear
	var force bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Run: func(cmd *cobra.Command, args []string) {
			if !force && !confirm("This deletes all tasks. Continue?") {
				fmt.Println(dimStyle.Render("Aborted"))
				return
			}

			database, _ := openStore()
			defer database.Close()

			out, err := runClear(database)
			if err != nil {
				fail(err)
			}
			fmt.Println(successStyle.Render(out))
		},
	}
	clearCmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)

	// serve
	var opts serveOptions
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP/WS API daemon",
		Run: func(cmd *cobra.Command, args []string) {
			if err := runServe(opts); err != nil {
				fail(err)
			}
		},
	}
	serveCmd.Flags().StringVarP(&opts.addr, "addr", "a", getEnvOrDefault("MDO_ADDR", ":8080"), "HTTP server address")
	serveCmd.Flags().StringVar(&opts.staticDir, "static", os.Getenv("MDO_STATIC_DIR"), "Static frontend directory")
	serveCmd.Flags().StringVar(&opts.sshAddr, "ssh", os.Getenv("MDO_SSH_ADDR"), "SSH server address (empty disables SSH)")
	serveCmd.Flags().StringVar(&opts.hostKey, "host-key", "", "SSH host key path (default: ~/.ssh/mdo_ed25519)")
	serveCmd.Flags().StringVarP(&opts.dbPath, "db", "d", "", "Database path (default: ~/.local/share/mdo/mdo.db)")
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
	os.Exit(1)
}

// openStore opens the default database and its hook emitter.
func openStore() (*db.DB, *events.Emitter) {
	database, err := db.Open(db.DefaultPath())
	if err != nil {
		fail(err)
	}
	cfg := config.New(database)
	return database, events.New(cfg.HooksDir)
}

// confirm prompts on stdin for a yes/no answer.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// runTUI opens the outline TUI on the default store.
func runTUI() error {
	database, err := db.Open(db.DefaultPath())
	if err != nil {
		return err
	}
	defer database.Close()

	cfg := config.New(database)
	emitter := events.New(cfg.HooksDir)

	keys := ui.DefaultKeyMap()
	if kb, err := config.LoadKeybindings(); err == nil && kb != nil {
		keys = ui.KeyMapFromConfig(kb)
	}

	model := ui.NewModel(database, emitter, keys)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
