package application

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mattn/go-runewidth"

	"github.com/diaglens/diaglens/internal/domain"
	"github.com/diaglens/diaglens/internal/domain/report"
)

// PageSize is the number of diagnostics shown before the details view
// waits for an acknowledgment.
const PageSize = 5

// State is a triage session state.
type State int

const (
	StateFileList State = iota
	StateFileMenu
	StateDetails
	StateExited
)

func (s State) String() string {
	switch s {
	case StateFileList:
		return "file-list"
	case StateFileMenu:
		return "file-menu"
	case StateDetails:
		return "details"
	case StateExited:
		return "exited"
	}
	return "unknown"
}

const ruleWidth = 80

// NavigatorConfig holds the collaborators of a triage session.
type NavigatorConfig struct {
	In        io.Reader
	Console   domain.Console
	Symbols   domain.Symbols
	Clipboard domain.Clipboard
	Source    domain.SourceReader
	ExportDir string
	Now       func() time.Time
}

// ExportResult tells where a report went.
type ExportResult struct {
	Copied bool
	Path   string
}

// Navigator is the interactive triage state machine. It reads one command
// per line and blocks on every prompt.
type Navigator struct {
	in        *bufio.Reader
	console   domain.Console
	symbols   domain.Symbols
	clipboard domain.Clipboard
	source    domain.SourceReader
	exportDir string
	now       func() time.Time

	groups  domain.FileGroups
	state   State
	current int
}

// NewNavigator starts a session over groups, which are ranked on entry.
func NewNavigator(groups domain.FileGroups, cfg NavigatorConfig) *Navigator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	return &Navigator{
		in:        bufio.NewReader(cfg.In),
		console:   cfg.Console,
		symbols:   cfg.Symbols,
		clipboard: cfg.Clipboard,
		source:    cfg.Source,
		exportDir: cfg.ExportDir,
		now:       cfg.Now,
		groups:    groups.Ranked(),
		state:     StateFileList,
	}
}

// State returns the current state.
func (n *Navigator) State() State { return n.state }

// Files returns the ranked file groups of the session.
func (n *Navigator) Files() domain.FileGroups { return n.groups }

// Current returns the selected file group.
func (n *Navigator) Current() (domain.FileGroup, bool) {
	if n.current < 0 || n.current >= len(n.groups) {
		return domain.FileGroup{}, false
	}
	return n.groups[n.current], true
}

// Run drives the session until it exits or ctx is done.
func (n *Navigator) Run(ctx context.Context) error {
	for n.state != StateExited {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Step renders the current state, reads one input and transitions.
func (n *Navigator) Step(ctx context.Context) error {
	switch n.state {
	case StateFileList:
		n.stepFileList()
	case StateFileMenu:
		n.stepFileMenu(ctx)
	case StateDetails:
		n.stepDetails()
	case StateExited:
	default:
		return goerr.New("invalid navigator state", goerr.V("state", int(n.state)))
	}
	return nil
}

func (n *Navigator) stepFileList() {
	if len(n.groups) == 0 {
		n.console.Println(domain.ToneSuccess, n.sym("check")+" No diagnostics to triage.")
		n.state = StateExited
		return
	}

	n.renderFileList()
	n.console.Prompt(fmt.Sprintf("%s File number (1-%d) or 0 to quit: ", n.sym("question"), len(n.groups)))

	line, ok := n.readLine()
	if !ok {
		n.exit()
		return
	}
	choice, err := strconv.Atoi(line)
	if err != nil || choice <= 0 || choice > len(n.groups) {
		n.exit()
		return
	}
	n.current = choice - 1
	n.state = StateFileMenu
}

func (n *Navigator) stepFileMenu(ctx context.Context) {
	g, _ := n.Current()
	n.renderFileMenu(g)
	n.console.Prompt(n.sym("question") + " Your choice: ")

	line, ok := n.readLine()
	if !ok {
		n.exit()
		return
	}

	switch strings.ToUpper(line) {
	case "D":
		n.state = StateDetails
	case "C":
		n.console.Println(domain.TonePlain, "")
		n.console.Println(domain.ToneInfo, n.sym("info")+" Preparing report...")
		res, err := n.Export(ctx, g)
		switch {
		case err != nil:
			n.console.Println(domain.ToneError, n.sym("error")+" Could not save the report: "+err.Error())
		case res.Copied:
			n.console.Println(domain.ToneSuccess, fmt.Sprintf("%s %d diagnostic(s) copied to the clipboard!", n.sym("check"), len(g.Diagnostics)))
			n.console.Println(domain.ToneMuted, "  You can now paste them into a document")
		default:
			n.console.Println(domain.ToneWarning, n.sym("warning")+" Could not copy to the clipboard")
			n.console.Println(domain.ToneInfo, n.sym("save")+" Report saved to: "+res.Path)
		}
		n.console.Println(domain.TonePlain, "")
	case "R":
		n.state = StateFileList
	case "Q":
		n.exit()
	default:
		n.console.Println(domain.ToneError, n.sym("error")+" Invalid choice! Use D, C, R or Q")
	}
}

func (n *Navigator) stepDetails() {
	g, _ := n.Current()
	diags := append([]domain.Diagnostic(nil), g.Diagnostics...)
	domain.SortByLine(diags)

	name := filepath.Base(g.Path)
	n.console.Println(domain.TonePlain, "")
	n.console.Println(domain.ToneWarning, strings.Repeat("─", ruleWidth))
	n.console.Println(domain.ToneWarning, fmt.Sprintf("│ %s %s - showing %d diagnostic(s)", n.sym("file"), name, len(diags)))
	n.console.Println(domain.ToneWarning, strings.Repeat("─", ruleWidth))
	n.console.Println(domain.TonePlain, "")

	lines := sourceLines(n.source, g.Path)
	if lines == nil {
		n.console.Println(domain.ToneWarning, n.sym("warning")+" Source file not found: "+g.Path)
		n.console.Println(domain.ToneMuted, "  Showing diagnostic details without code context")
		n.console.Println(domain.TonePlain, "")
	}

	total := len(diags)
	for i, d := range diags {
		n.console.Println(domain.ToneBold, fmt.Sprintf("[%d/%d]", i+1, total))
		n.renderDiagnostic(d, lines)

		if (i+1)%PageSize == 0 && i < total-1 {
			n.console.Prompt(fmt.Sprintf("%s Press Enter to continue (%d/%d)...", n.sym("clock"), i+1, total))
			if _, ok := n.readLine(); !ok {
				n.exit()
				return
			}
		}
	}

	n.console.Println(domain.ToneSuccess, fmt.Sprintf("%s Finished showing %d diagnostic(s)", n.sym("check"), total))
	n.console.Println(domain.TonePlain, "")
	n.state = StateFileMenu
}

// Export copies the report for g to the clipboard, or writes it to the
// export directory when the clipboard is unavailable or the copy fails.
func (n *Navigator) Export(ctx context.Context, g domain.FileGroup) (ExportResult, error) {
	text := formatReport(n.source, g, n.now())

	if n.clipboard != nil && n.clipboard.Available() {
		err := n.clipboard.Copy(text)
		if err == nil {
			return ExportResult{Copied: true}, nil
		}
		ctxlog.From(ctx).Warn("clipboard copy failed, writing report file", "error", err)
	}

	path := filepath.Join(n.exportDir, report.ExportFileName(g.Path))
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return ExportResult{}, goerr.Wrap(err, "failed to write report", goerr.V("path", path))
	}
	return ExportResult{Path: path}, nil
}

func (n *Navigator) renderFileList() {
	heavy := strings.Repeat("═", ruleWidth)
	n.console.Println(domain.TonePlain, "")
	n.console.Println(domain.ToneTitle, heavy)
	n.console.Println(domain.ToneTitle, "║ "+n.sym("document")+" FILES WITH DIAGNOSTICS")
	n.console.Println(domain.ToneTitle, heavy)
	n.console.Println(domain.TonePlain, "")

	for i, g := range n.groups {
		c := g.Counts()
		n.console.Println(domain.TonePlain, fmt.Sprintf("  [%d] %s %dE %dW %dI",
			i+1, fitName(filepath.Base(g.Path), 40),
			c[domain.SeverityError], c[domain.SeverityWarning], c[domain.SeverityInfo]))
	}
	n.console.Println(domain.TonePlain, "")
}

func (n *Navigator) renderFileMenu(g domain.FileGroup) {
	light := strings.Repeat("─", ruleWidth)
	n.console.Println(domain.TonePlain, "")
	n.console.Println(domain.ToneAccent, light)
	n.console.Println(domain.ToneAccent, fmt.Sprintf("│ %s %s - %d diagnostic(s)", n.sym("file"), filepath.Base(g.Path), len(g.Diagnostics)))
	n.console.Println(domain.ToneAccent, light)
	n.console.Println(domain.TonePlain, "")
	n.console.Println(domain.TonePlain, "  [D] Show diagnostic details")
	n.console.Println(domain.TonePlain, "  [C] "+n.sym("clipboard")+" Copy the report to the clipboard")
	n.console.Println(domain.TonePlain, "  [R] "+n.sym("back")+" Back to the file list")
	n.console.Println(domain.TonePlain, "  [Q] Quit")
	n.console.Println(domain.TonePlain, "")
}

func (n *Navigator) renderDiagnostic(d domain.Diagnostic, lines []string) {
	tone := severityTone(d.Severity)
	sev := strings.ToUpper(d.Severity)
	if sev == "" {
		sev = strings.ToUpper(domain.SeverityError)
	}

	if lines == nil {
		n.console.Println(domain.ToneMuted, fmt.Sprintf("  Line %d, Column %d", d.Line(), d.Column()))
		n.console.Println(tone, fmt.Sprintf("   │ [%s] %s", sev, d.Message))
		if d.Category != "" {
			n.console.Println(domain.ToneMuted, "   │ Category: "+d.Category)
		}
		n.console.Println(domain.TonePlain, "")
		return
	}

	w := report.Window(lines, d.Start.Line, report.ContextLines)
	for _, l := range w.Before {
		n.console.Println(domain.ToneMuted, "  "+report.Gutter(l.Number)+" "+l.Text)
	}
	n.console.Println(domain.ToneError, "> "+report.Gutter(w.Target.Number)+" "+w.Target.Text)
	n.console.Println(domain.ToneError, report.Pointer(d.Column()))
	n.console.Println(tone, fmt.Sprintf("   │ [%s] %s", sev, d.Message))
	if d.Category != "" {
		n.console.Println(domain.ToneMuted, "   │ Category: "+d.Category)
	}
	for _, l := range w.After {
		n.console.Println(domain.ToneMuted, "  "+report.Gutter(l.Number)+" "+l.Text)
	}
	n.console.Println(domain.TonePlain, "")
}

func (n *Navigator) exit() {
	n.console.Println(domain.TonePlain, "")
	n.console.Println(domain.ToneMuted, n.sym("quit")+" Goodbye!")
	n.state = StateExited
}

// readLine returns the next trimmed input line; false means input ended.
func (n *Navigator) readLine() (string, bool) {
	line, err := n.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (n *Navigator) sym(name string) string {
	if n.symbols == nil {
		return ""
	}
	return n.symbols.Symbol(name)
}

func severityTone(severity string) domain.Tone {
	switch severity {
	case domain.SeverityWarning:
		return domain.ToneWarning
	case domain.SeverityInfo:
		return domain.ToneInfo
	default:
		return domain.ToneError
	}
}

// fitName pads or truncates name to exactly width terminal cells.
func fitName(name string, width int) string {
	if runewidth.StringWidth(name) > width {
		name = runewidth.Truncate(name, width, "…")
	}
	return runewidth.FillRight(name, width)
}
