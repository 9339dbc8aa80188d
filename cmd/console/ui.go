package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/halloway/gumshoe/pkg/clock"
	"github.com/halloway/gumshoe/pkg/engine"
	"github.com/halloway/gumshoe/pkg/events"
	"github.com/halloway/gumshoe/pkg/state"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const tickInterval = 250 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

var titleCaser = cases.Title(language.English)

type tickMsg time.Time

// UI is the bubbletea model. Engine commands and scheduler timers both
// run inside Update, keeping the whole session on one goroutine.
type UI struct {
	eng   *engine.Engine
	sched *clock.Manual

	viewport viewport.Model
	input    textinput.Model

	transcript []string
	pending    []string // event lines collected during the current Update
	lastTick   time.Time
	width      int
	height     int
	ready      bool
	finished   bool
}

func newUI(eng *engine.Engine, bus *events.Bus, sched *clock.Manual) *UI {
	input := textinput.New()
	input.Placeholder = "help for commands"
	input.Focus()

	ui := &UI{
		eng:      eng,
		sched:    sched,
		input:    input,
		lastTick: time.Now(),
	}
	bus.Subscribe(ui.onEvent)

	ui.say(titleStyle.Render(eng.Case().Incident.Title))
	ui.say(mutedStyle.Render("Type 'help' for commands."))
	return ui
}

func (ui *UI) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (ui *UI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width, ui.height = msg.Width, msg.Height
		if !ui.ready {
			ui.viewport = viewport.New(msg.Width, msg.Height-3)
			ui.ready = true
		} else {
			ui.viewport.Width = msg.Width
			ui.viewport.Height = msg.Height - 3
		}
		ui.refresh()

	case tickMsg:
		now := time.Time(msg)
		ui.sched.Advance(now.Sub(ui.lastTick))
		ui.lastTick = now
		ui.drain()
		return ui, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(ui.input.Value())
			ui.input.SetValue("")
			if line != "" {
				ui.handleCommand(line)
				ui.drain()
			}
			if ui.finished {
				return ui, tea.Quit
			}
			return ui, nil
		}
	}

	var cmd tea.Cmd
	ui.input, cmd = ui.input.Update(msg)
	return ui, cmd
}

func (ui *UI) View() string {
	if !ui.ready {
		return "loading…"
	}
	return ui.viewport.View() + "\n\n" + ui.input.View()
}

// onEvent collects engine events into the pending buffer. Events fire
// synchronously during handleCommand or scheduler advancement, both of
// which run on the Update goroutine.
func (ui *UI) onEvent(e events.Event) {
	switch e := e.(type) {
	case events.CharacterIntroduced:
		ui.pending = append(ui.pending, eventStyle.Render("✦ You have met "+displayName(e.Character)+"."))
	case events.PhaseChanged:
		ui.pending = append(ui.pending, eventStyle.Render("✦ The investigation begins."))
	case events.IncidentTriggered:
		for _, line := range e.CutsceneText {
			ui.pending = append(ui.pending, dialogStyle.Render(line))
		}
	case events.ClueUnlocked:
		ui.pending = append(ui.pending, mutedStyle.Render("Something new can be examined: "+e.Clue))
	case events.ClueDiscovered:
		ui.pending = append(ui.pending, eventStyle.Render("✦ Clue recorded in your notebook: "+e.Clue))
	case events.AccusationStarted:
		ui.pending = append(ui.pending, eventStyle.Render("✦ You accuse "+displayName(e.Suspect)+"."))
	case events.StatementAdvanced:
		// The statement text itself is rendered by the command handler.
	case events.BadEndingTriggered:
		ui.pending = append(ui.pending, errorStyle.Render(e.EndingText))
	case events.SaveCompleted:
		if e.Err != nil {
			ui.pending = append(ui.pending, errorStyle.Render("(saving failed; progress is held in memory only)"))
		}
	}
}

func (ui *UI) handleCommand(line string) {
	parts := strings.Fields(line)
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "help":
		ui.say(mutedStyle.Render(strings.Join([]string{
			"talk <character>   open a conversation",
			"close              end the conversation",
			"examine <clue>     examine an unlocked clue",
			"clues              list known clues",
			"notebook           show notebook entries",
			"accuse <suspect>   start an accusation",
			"present <clue>     present evidence",
			"press              advance to the next statement",
			"withdraw           cancel the accusation",
			"restart            abandon the session and start over",
			"quit               leave the game",
		}, "\n")))
	case "quit":
		ui.finished = true
	case "talk":
		ui.cmdTalk(args)
	case "close":
		if err := ui.eng.CloseConversation(); err != nil {
			ui.say(mutedStyle.Render("You are not talking to anyone."))
		}
	case "examine":
		ui.cmdExamine(args)
	case "clues":
		ui.cmdClues()
	case "notebook":
		ui.cmdNotebook()
	case "accuse":
		ui.cmdAccuse(args)
	case "present":
		ui.cmdPresent(args)
	case "press", "advance":
		ui.cmdAdvance()
	case "withdraw", "cancel":
		ui.eng.CancelAccusation()
		ui.say(mutedStyle.Render("You withdraw the accusation."))
	case "restart":
		ui.eng.Reset()
		ui.finished = false
		ui.say(titleStyle.Render(ui.eng.Case().Incident.Title))
		ui.say(mutedStyle.Render("A new investigation begins."))
	default:
		ui.say(mutedStyle.Render("Unknown command. Type 'help'."))
	}
}

func (ui *UI) cmdTalk(args []string) {
	if len(args) != 1 {
		ui.say(mutedStyle.Render("talk <character>"))
		return
	}
	if ui.eng.AccusationStatus() != engine.StatusIdle {
		ui.say(mutedStyle.Render("Not during a confrontation."))
		return
	}
	dialog, err := ui.eng.OpenConversation(args[0])
	if err != nil && dialog == nil {
		ui.say(mutedStyle.Render("You cannot start another conversation right now."))
		return
	}
	ui.say(speakerStyle.Render(displayName(dialog.Character) + ":"))
	for _, l := range dialog.Lines {
		ui.say(dialogStyle.Render(l))
	}
}

func (ui *UI) cmdExamine(args []string) {
	if len(args) != 1 {
		ui.say(mutedStyle.Render("examine <clue>"))
		return
	}
	id := args[0]
	if ui.eng.IsConversationOpen() {
		ui.say(mutedStyle.Render("Finish the conversation first."))
		return
	}
	if !ui.eng.CanInteract(id) {
		ui.say(mutedStyle.Render("There is nothing to examine there."))
		return
	}
	if err := ui.eng.DiscoverClue(id); err != nil {
		ui.say(errorStyle.Render(err.Error()))
		return
	}
	if clue := ui.eng.Case().ClueByID(id); clue != nil {
		ui.say(dialogStyle.Render(clue.DisplayText))
	}
}

func (ui *UI) cmdClues() {
	for _, clue := range ui.eng.Case().Clues {
		st := ui.eng.ClueState(clue.ID)
		if st == state.ClueLocked {
			continue
		}
		ui.say(mutedStyle.Render(fmt.Sprintf("%-14s %s", clue.ID, st)))
	}
}

func (ui *UI) cmdNotebook() {
	nb, ok := ui.eng.Notebook().(*engine.MemoryNotebook)
	if !ok {
		return
	}
	for _, entry := range nb.Entries() {
		ui.say(mutedStyle.Render(entry.Source+": ") + dialogStyle.Render(entry.Text))
	}
}

func (ui *UI) cmdAccuse(args []string) {
	if len(args) != 1 {
		ui.say(mutedStyle.Render("accuse <suspect>"))
		return
	}
	if ok, reason := ui.eng.CanInitiateAccusation(); !ok {
		ui.say(mutedStyle.Render(reason))
		return
	}
	if err := ui.eng.StartAccusation(args[0]); err != nil {
		ui.say(errorStyle.Render(err.Error()))
		return
	}
	ui.showStatement()
}

func (ui *UI) cmdPresent(args []string) {
	if len(args) != 1 {
		ui.say(mutedStyle.Render("present <clue>"))
		return
	}
	res, outcome, err := ui.eng.PresentEvidence(args[0])
	if err != nil {
		ui.say(errorStyle.Render(err.Error()))
		return
	}
	switch {
	case res.Bonus:
		ui.say(eventStyle.Render("That detail lands harder than expected. (bonus evidence)"))
	case res.Correct:
		ui.say(eventStyle.Render("The statement crumbles. Press on."))
	case res.OutOfOrder:
		ui.say(errorStyle.Render("Relevant, but not yet. Build the case in order."))
	default:
		ui.say(errorStyle.Render(fmt.Sprintf("That proves nothing. (mistake %d)", res.Mistakes)))
	}
	ui.resolve(outcome)
}

func (ui *UI) cmdAdvance() {
	outcome, err := ui.eng.AdvanceStatement()
	if err != nil {
		ui.say(mutedStyle.Render("The statement still stands. Present evidence."))
		return
	}
	if outcome == nil {
		ui.showStatement()
		return
	}
	ui.resolve(outcome)
}

func (ui *UI) showStatement() {
	stmt := ui.eng.CurrentStatement()
	if stmt == nil {
		return
	}
	progress := ui.eng.ConfrontationProgress()
	ui.say(speakerStyle.Render(displayName(progress.Suspect) + ":"))
	ui.say(dialogStyle.Render(stmt.Text))
	if !stmt.RequiresEvidence {
		ui.say(mutedStyle.Render("(press to continue)"))
	}
}

func (ui *UI) resolve(outcome *engine.Outcome) {
	if outcome == nil {
		return
	}
	ui.finished = true
	switch {
	case outcome.Victory != nil:
		v := outcome.Victory
		ui.say(titleStyle.Render("Case closed."))
		ui.say(dialogStyle.Render(v.Confession))
		ui.say(dialogStyle.Render(v.Motive))
		ui.say(mutedStyle.Render("Key evidence: " + strings.Join(v.KeyEvidence, ", ")))
		if v.Thorough {
			ui.say(eventStyle.Render("A thorough investigation. Nothing was left unexamined."))
		}
	case outcome.BadEnding:
		// Ending text already rendered from the event.
	default:
		ui.say(errorStyle.Render(outcome.EndingText))
		ui.finished = false
	}
}

func (ui *UI) say(line string) {
	ui.transcript = append(ui.transcript, wordwrap.String(line, max(ui.width-2, 20)))
	ui.refresh()
}

// drain moves collected event lines into the transcript.
func (ui *UI) drain() {
	if len(ui.pending) == 0 {
		return
	}
	for _, line := range ui.pending {
		ui.transcript = append(ui.transcript, wordwrap.String(line, max(ui.width-2, 20)))
	}
	ui.pending = nil
	ui.refresh()
}

func (ui *UI) refresh() {
	if !ui.ready {
		return
	}
	ui.viewport.SetContent(strings.Join(ui.transcript, "\n"))
	ui.viewport.GotoBottom()
}

// displayName renders a character id like "emma_hart" as "Emma Hart".
func displayName(id string) string {
	return titleCaser.String(strings.ReplaceAll(id, "_", " "))
}
