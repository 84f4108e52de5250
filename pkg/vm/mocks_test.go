package vm

import (
	"io"
	"log/slog"
	"testing"
)

// Scripted collaborator mocks. Each records what the engine asked for so
// tests can assert on the calls, and returns a preset error when set.

type mockDialog struct {
	messages []string
	notices  []string
	prompts  []string
	options  [][]string
	err      error
}

func (m *mockDialog) ShowMessage(instanceID, text string) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, text)
	return nil
}

func (m *mockDialog) ShowNotice(text string) error {
	if m.err != nil {
		return m.err
	}
	m.notices = append(m.notices, text)
	return nil
}

func (m *mockDialog) ShowChoice(instanceID, prompt string, options []string) error {
	if m.err != nil {
		return m.err
	}
	m.prompts = append(m.prompts, prompt)
	m.options = append(m.options, options)
	return nil
}

type moveCall struct{ id, x, y int64 }

type mockMovement struct {
	moves []moveCall
	warps []moveCall
	faces [][2]int64
	err   error
}

func (m *mockMovement) StartMove(id, x, y int64) error {
	if m.err != nil {
		return m.err
	}
	m.moves = append(m.moves, moveCall{id, x, y})
	return nil
}

func (m *mockMovement) Warp(id, x, y int64) error {
	if m.err != nil {
		return m.err
	}
	m.warps = append(m.warps, moveCall{id, x, y})
	return nil
}

func (m *mockMovement) Face(id, dir int64) error {
	if m.err != nil {
		return m.err
	}
	m.faces = append(m.faces, [2]int64{id, dir})
	return nil
}

type mockAudio struct {
	bgm     []string
	se      []string
	stopped int
	err     error
}

func (m *mockAudio) PlayBGM(name string) error {
	if m.err != nil {
		return m.err
	}
	m.bgm = append(m.bgm, name)
	return nil
}

func (m *mockAudio) PlaySE(name string) error {
	if m.err != nil {
		return m.err
	}
	m.se = append(m.se, name)
	return nil
}

func (m *mockAudio) StopBGM() error {
	if m.err != nil {
		return m.err
	}
	m.stopped++
	return nil
}

type mockBattle struct {
	troops []int64
	err    error
}

func (m *mockBattle) StartBattle(troopID int64) error {
	if m.err != nil {
		return m.err
	}
	m.troops = append(m.troops, troopID)
	return nil
}

type mockMenu struct {
	kinds []int64
	err   error
}

func (m *mockMenu) OpenMenu(kind int64) error {
	if m.err != nil {
		return m.err
	}
	m.kinds = append(m.kinds, kind)
	return nil
}

type mockParty struct {
	items map[int64]int64
	gold  int64
	err   error
}

func newMockParty() *mockParty {
	return &mockParty{items: make(map[int64]int64)}
}

func (m *mockParty) HasItem(itemID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.items[itemID] > 0, nil
}

func (m *mockParty) AddItem(itemID, count int64) error {
	if m.err != nil {
		return m.err
	}
	m.items[itemID] += count
	return nil
}

func (m *mockParty) Gold() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.gold, nil
}

type mockHosts struct {
	dialog   *mockDialog
	movement *mockMovement
	audio    *mockAudio
	battle   *mockBattle
	menu     *mockMenu
	party    *mockParty
}

func newMockHosts() *mockHosts {
	return &mockHosts{
		dialog:   &mockDialog{},
		movement: &mockMovement{},
		audio:    &mockAudio{},
		battle:   &mockBattle{},
		menu:     &mockMenu{},
		party:    newMockParty(),
	}
}

func (m *mockHosts) hosts() Hosts {
	return Hosts{
		Dialog:   m.dialog,
		Movement: m.movement,
		Audio:    m.audio,
		Battle:   m.battle,
		Menu:     m.menu,
		Party:    m.party,
	}
}

// newTestEngine builds a quiet engine with a fixed seed.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRandomSeed(1),
	}
	return New(append(base, opts...)...)
}

// mustInvoke loads source under the given name and starts an instance.
func mustInvoke(t *testing.T, e *Engine, name, source string) string {
	t.Helper()
	if err := e.LoadScript(name, source); err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	id, err := e.Invoke(name)
	if err != nil {
		t.Fatalf("invoke %s: %v", name, err)
	}
	return id
}

// tickUntilDone ticks the engine until the instance leaves the Running
// and Suspended states, failing after maxTicks.
func tickUntilDone(t *testing.T, e *Engine, id string, maxTicks int) *Instance {
	t.Helper()
	inst, ok := e.Instance(id)
	if !ok {
		t.Fatalf("instance %s not found", id)
	}
	for i := 0; i < maxTicks; i++ {
		if inst.Status() != StatusRunning && inst.Status() != StatusSuspended {
			return inst
		}
		e.Tick()
	}
	if inst.Status() == StatusRunning || inst.Status() == StatusSuspended {
		t.Fatalf("instance still %s after %d ticks", inst.Status(), maxTicks)
	}
	return inst
}
