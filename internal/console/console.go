// Package console drives a walkthrough from line-oriented input. It is used
// when stdout is not a terminal or when --plain is given.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Iron-Ham/pcbuild/internal/errors"
	"github.com/Iron-Ham/pcbuild/internal/event"
	"github.com/Iron-Ham/pcbuild/internal/logging"
	"github.com/Iron-Ham/pcbuild/internal/present"
	"github.com/Iron-Ham/pcbuild/internal/tui/styles"
	"github.com/Iron-Ham/pcbuild/internal/util"
	"github.com/Iron-Ham/pcbuild/internal/walkthrough"
)

// DefaultWidth is the column count output is wrapped to.
const DefaultWidth = 72

// Prompt is written before each command is read.
const Prompt = "> "

// Options configures a Console.
type Options struct {
	Styles *styles.Styles
	Logger *logging.Logger
	Width  int
	// Prompt replaces the default prompt. Set NoPrompt to print none.
	Prompt   string
	NoPrompt bool
}

// Console reads commands from in and writes the rendered walkthrough to out.
type Console struct {
	walk   *walkthrough.Walkthrough
	in     io.Reader
	out    io.Writer
	styles *styles.Styles
	logger *logging.Logger
	width  int
	prompt string

	// pendingHide is the auto-hiding message to drop before the next render.
	pendingHide uint64
}

// New creates a console over a started walkthrough.
func New(w *walkthrough.Walkthrough, in io.Reader, out io.Writer, opts Options) *Console {
	c := &Console{
		walk:   w,
		in:     in,
		out:    out,
		styles: opts.Styles,
		logger: opts.Logger,
		width:  opts.Width,
		prompt: Prompt,
	}
	if c.styles == nil {
		c.styles = styles.Default()
	}
	if c.logger == nil {
		c.logger = logging.NopLogger()
	}
	if c.width <= 0 {
		c.width = DefaultWidth
	}
	if opts.Prompt != "" {
		c.prompt = opts.Prompt
	}
	if opts.NoPrompt {
		c.prompt = ""
	}

	w.Bus().SubscribeMany(func(e event.Event) {
		switch ev := e.(type) {
		case event.SceneNotificationEvent:
			c.println(c.styles.Notification.Render(fmt.Sprintf("⚑ %s: %s", ev.Trigger, ev.Message)))
		case event.SessionCompletedEvent:
			c.println(c.styles.Muted.Render("progress saved: guide complete"))
		}
	}, event.TypeSceneNotification, event.TypeSessionCompleted)

	return c
}

// Run renders the current screen and processes commands until quit, end of
// input or cancellation of ctx.
func (c *Console) Run(ctx context.Context) error {
	c.render()

	scanner := bufio.NewScanner(c.in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading commands: %w", err)
			}
			return nil
		}
		if quit := c.Exec(scanner.Text()); quit {
			return nil
		}
	}
}

// Exec runs one command line and renders the result. It reports whether the
// user asked to quit.
func (c *Console) Exec(line string) (quit bool) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}

	var (
		cmd walkthrough.Command
		arg int
	)
	switch fields[0] {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		c.printHelp()
		return false
	case "next", "n":
		cmd = walkthrough.CmdNext
	case "prev", "previous", "p":
		cmd = walkthrough.CmdPrevious
	case "menu", "m":
		cmd = walkthrough.CmdMenu
	case "start", "s":
		cmd = walkthrough.CmdStart
	case "parts", "i":
		cmd = walkthrough.CmdParts
	case "close", "back", "c":
		cmd = walkthrough.CmdClose
	case "jump", "j":
		if len(fields) != 2 {
			c.printError("usage: jump N")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			c.printError(fmt.Sprintf("jump: %q is not a step number", fields[1]))
			return false
		}
		cmd, arg = walkthrough.CmdJump, n
	default:
		c.printError(fmt.Sprintf("unknown command %q (try help)", fields[0]))
		return false
	}

	c.hidePending()
	if _, err := c.walk.Do(cmd, arg); err != nil {
		if errors.Is(err, errors.ErrControlDisabled) {
			c.println(c.styles.Warning.Render(fmt.Sprintf("%s is not available here", cmd)))
			return false
		}
		c.logger.Report("navigation failed", err, "command", string(cmd))
		c.printError(err.Error())
	}
	c.render()
	return false
}

// hidePending drops an auto-hiding message once the user has moved on.
func (c *Console) hidePending() {
	if c.pendingHide != 0 {
		c.walk.State().HideMessage(c.pendingHide)
		c.pendingHide = 0
	}
}

func (c *Console) render() {
	st := c.walk.State()
	fmt.Fprint(c.out, Render(c.walk, c.styles, c.width))
	if !st.MessageHidden && st.AutoHide {
		c.pendingHide = st.MessageSeq
	}
}

// Render formats the walkthrough's current screen as plain lines.
func Render(w *walkthrough.Walkthrough, s *styles.Styles, width int) string {
	st := w.State()
	seq := w.Sequencer()
	step := seq.Current()

	var b strings.Builder
	line := func(text string) {
		b.WriteString(text)
		b.WriteString("\n")
	}

	line(s.Title.Render(util.Rule(fmt.Sprintf("%s · step %d/%d %s", w.Guide().Title, step.Index(), seq.Len()-1, step.Title()), width)))

	switch w.Mode() {
	case walkthrough.ModeMenu:
		line(s.PopupTitle.Render("Menu"))
		line("  " + s.MenuKey.Render("start") + "  Start building PC")
		line("  " + s.MenuKey.Render("parts") + "  Identify PC parts")
		line("  " + s.MenuKey.Render("quit ") + "  Quit")
	case walkthrough.ModeParts:
		line(s.PopupTitle.Render("PC parts"))
		for _, p := range w.Guide().Parts {
			line("  " + s.PartName.Render(p.Name))
			for _, l := range strings.Split(util.Wrap(p.Description, width-4), "\n") {
				line("    " + s.Muted.Render(l))
			}
		}
		line(s.Muted.Render("  close to go back"))
	default:
		if !st.MessageHidden && st.Message != "" {
			line(s.Message.Render("» " + st.Message))
		}
		if st.MilestoneVisible {
			ms := st.Milestone
			text := s.MilestoneInstruction.Render(ms.Instruction)
			if ms.StepLabel != "" {
				text = s.MilestoneLabel.Render(ms.StepLabel+":") + " " + text
			}
			line(text)
			if ms.Detail != "" {
				for _, l := range strings.Split(util.Wrap(ms.Detail, width-2), "\n") {
					line("  " + s.MilestoneDetail.Render(l))
				}
			}
		}
		for _, h := range w.Stage().Anchors() {
			line(s.Muted.Render(fmt.Sprintf("  anchored: %s (%d collision shapes)", h.Title(), h.Collidable())))
		}
	}

	line(s.Muted.Render("controls: " + enabledControls(st)))
	return b.String()
}

func enabledControls(st *present.State) string {
	var on []string
	for _, ctl := range present.Controls() {
		if st.Enabled(ctl) {
			on = append(on, string(ctl))
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ", ")
}

func (c *Console) printHelp() {
	help := [][2]string{
		{"next, n", "next step"},
		{"prev, p", "previous step"},
		{"menu, m", "open the menu"},
		{"start, s", "start building (menu)"},
		{"parts, i", "identify PC parts (menu)"},
		{"close, c", "close the open panel"},
		{"jump N", "go to step N"},
		{"quit, q", "quit"},
	}
	for _, h := range help {
		c.println(fmt.Sprintf("  %s  %s", c.styles.HelpKey.Render(fmt.Sprintf("%-9s", h[0])), h[1]))
	}
}

func (c *Console) printError(msg string) {
	c.println(c.styles.Error.Render("error: " + msg))
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
