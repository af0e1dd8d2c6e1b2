package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/smpl/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), testEvaluator(), NewHistory(""), log.Logger{})
}

func TestModel_Evaluate(t *testing.T) {
	m := newTestModel(t)

	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"1 + 2", "3", false},
		{"cfg.host", `"localhost"`, false},
		{"obj.name", `"api"`, false},
		{"undefined_name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := m.evaluate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("evaluate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("evaluate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := newTestModel(t)

	for _, line := range []string{"1 + 2", ":list", "  "} {
		m.input.SetValue(line)

		var cmd tea.Cmd

		m, cmd = m.executeInput()

		if strings.TrimSpace(line) != "" && cmd == nil {
			t.Errorf("executeInput(%q) returned no command", line)
		}
	}

	want := []HistoryEntry{{"1 + 2", modeEval}, {"list", modeCtrl}}

	got := m.history.Entries()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("history = %v, want %v", got, want)
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q after execute", m.input.Value())
	}
}

func TestModel_ExecuteBlank(t *testing.T) {
	for _, line := range []string{"", "  ", "\t "} {
		m := newTestModel(t)
		m.input.SetValue(line)

		m, cmd := m.executeInput()
		if cmd != nil {
			t.Errorf("executeInput(%q) returned a command", line)
		}

		if m.input.Value() != "" {
			t.Errorf("executeInput(%q) left input %q", line, m.input.Value())
		}

		if m.history.Len() != 0 {
			t.Errorf("executeInput(%q) added %d history entries", line, m.history.Len())
		}
	}
}

func TestHelpMessage(t *testing.T) {
	if strings.HasSuffix(helpMessage, "\n") {
		t.Error("help message ends in a newline")
	}

	for _, c := range ctrlCommands {
		if !strings.Contains(helpMessage, "  "+c+" ") {
			t.Errorf("help message does not describe %q", c)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	m, _ = m.executeCommand("quit")
	if !m.quitting {
		t.Error("quit did not set quitting")
	}

	if m.View() != "" {
		t.Errorf("View() = %q after quit", m.View())
	}
}

func TestModel_ListBindings(t *testing.T) {
	m := newTestModel(t)

	all := m.listBindings()
	for _, name := range []string{"cfg", "obj", "count"} {
		if !strings.Contains(all, name) {
			t.Errorf("listBindings() missing %q:\n%s", name, all)
		}
	}

	some := m.listBindings("cf")
	if !strings.Contains(some, "cfg") || strings.Contains(some, "obj") {
		t.Errorf("listBindings(cf) = %q", some)
	}
}

func TestModel_Completion(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("cfg.")
	m.input.SetCursor(4)
	refreshMatches(&m, false)

	if len(m.matches) != 3 {
		t.Fatalf("matches after %q = %d, want 3", "cfg.", len(m.matches))
	}

	m = m.cycle(1)
	if m.input.Value() != "cfg.host" || !m.tabActive {
		t.Errorf("after tab: input %q, tabActive %v", m.input.Value(), m.tabActive)
	}

	m = m.cycle(-1)
	if m.input.Value() != "cfg.reload" {
		t.Errorf("after shift-tab: input %q", m.input.Value())
	}

	m = newTestModel(t)
	m.input.SetValue("co")
	m.input.SetCursor(2)
	refreshMatches(&m, false)

	m = m.cycle(1)
	if m.input.Value() != "count" || m.tabActive {
		t.Errorf("single candidate: input %q, tabActive %v", m.input.Value(), m.tabActive)
	}
}

func TestModel_SwitchMode(t *testing.T) {
	m := newTestModel(t)

	m.input.SetValue("1 +")
	m = m.switchToMode(modeCtrl)

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("ctrl mode: mode %v, input %q", m.mode, m.input.Value())
	}

	m.input.SetValue("he")
	m = m.switchToMode(modeEval)

	if m.input.Value() != "1 +" {
		t.Errorf("eval input restored as %q", m.input.Value())
	}

	m = m.switchToMode(modeCtrl)
	if m.input.Value() != "he" {
		t.Errorf("ctrl input restored as %q", m.input.Value())
	}
}

func TestModel_HistoryStep(t *testing.T) {
	m := newTestModel(t)

	for _, e := range []HistoryEntry{{"a", modeEval}, {"help", modeCtrl}, {"b", modeEval}} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	steps := []struct {
		dir      int
		sameMode bool
		want     string
		wantMode inputMode
	}{
		{-1, false, "b", modeEval},
		{-1, false, "help", modeCtrl},
		{-1, true, "help", modeCtrl},
		{1, false, "b", modeEval},
		{1, false, "", modeEval},
	}

	for i, s := range steps {
		m = m.historyStep(s.dir, s.sameMode)

		if m.input.Value() != s.want || m.mode != s.wantMode {
			t.Errorf("step %d: input %q mode %v, want %q mode %v",
				i, m.input.Value(), m.mode, s.want, s.wantMode)
		}
	}
}
