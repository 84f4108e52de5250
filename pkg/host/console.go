// Package host provides reference collaborator implementations.
package host

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hazama/plotscript/pkg/vm"
)

type pendingWake struct {
	cond   vm.WakeCondition
	result vm.Value
}

// Console implements every collaborator interface against a writer. It
// acknowledges each request on the next Pump, so suspended instances
// resume one frame later without a player: messages close themselves,
// choices and menus pick option 0, moves and battles finish instantly.
// Inventory and gold live in memory.
//
// Intended for headless runs and as the template for a real host.
type Console struct {
	log *slog.Logger
	out io.Writer

	pending []pendingWake
	items   map[int64]int64
	gold    int64
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the console's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.log = l }
}

// WithOutput redirects the console's player-facing text.
func WithOutput(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// WithGold sets the starting gold.
func WithGold(gold int64) Option {
	return func(c *Console) { c.gold = gold }
}

// NewConsole creates a console host writing to stdout.
func NewConsole(opts ...Option) *Console {
	c := &Console{
		log:   slog.Default(),
		out:   os.Stdout,
		items: make(map[int64]int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Hosts bundles the console for vm.WithHosts.
func (c *Console) Hosts() vm.Hosts {
	return vm.Hosts{
		Dialog:   c,
		Movement: c,
		Audio:    c,
		Battle:   c,
		Menu:     c,
		Party:    c,
	}
}

// Pump delivers all queued acknowledgements to the engine. Call once per
// frame, before Tick.
func (c *Console) Pump(eng *vm.Engine) {
	if len(c.pending) == 0 {
		return
	}
	queued := c.pending
	c.pending = nil
	for _, p := range queued {
		eng.NotifyWake(p.cond, p.result)
	}
}

func (c *Console) queue(cond vm.WakeCondition, result vm.Value) {
	c.pending = append(c.pending, pendingWake{cond: cond, result: result})
}

// ShowMessage prints the text and queues the close acknowledgement.
func (c *Console) ShowMessage(instanceID, text string) error {
	fmt.Fprintln(c.out, text)
	c.queue(vm.WakeCondition{Kind: vm.WakeMessageClosed, Tag: instanceID}, vm.Void)
	return nil
}

// ShowNotice prints the text.
func (c *Console) ShowNotice(text string) error {
	fmt.Fprintln(c.out, text)
	return nil
}

// ShowChoice prints the prompt and options and queues selection 0.
func (c *Console) ShowChoice(instanceID, prompt string, options []string) error {
	fmt.Fprintln(c.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(c.out, "  %d: %s\n", i, opt)
	}
	c.queue(vm.WakeCondition{Kind: vm.WakeChoiceMade, Tag: instanceID}, vm.IntValue(0))
	return nil
}

// StartMove queues immediate arrival.
func (c *Console) StartMove(charaID, x, y int64) error {
	c.log.Debug("move", "chara", charaID, "x", x, "y", y)
	c.queue(vm.WakeCondition{Kind: vm.WakeMoveDone, Target: charaID}, vm.Void)
	return nil
}

// Warp logs the teleport.
func (c *Console) Warp(charaID, x, y int64) error {
	c.log.Debug("warp", "chara", charaID, "x", x, "y", y)
	return nil
}

// Face logs the turn.
func (c *Console) Face(charaID, dir int64) error {
	c.log.Debug("face", "chara", charaID, "dir", dir)
	return nil
}

// PlayBGM logs the track change.
func (c *Console) PlayBGM(name string) error {
	c.log.Info("bgm", "name", name)
	return nil
}

// PlaySE logs the effect.
func (c *Console) PlaySE(name string) error {
	c.log.Debug("se", "name", name)
	return nil
}

// StopBGM logs the stop.
func (c *Console) StopBGM() error {
	c.log.Info("bgm stopped")
	return nil
}

// StartBattle queues an immediate victory (result 0).
func (c *Console) StartBattle(troopID int64) error {
	fmt.Fprintf(c.out, "[battle %d]\n", troopID)
	c.queue(vm.WakeCondition{Kind: vm.WakeBattleDone, Target: troopID}, vm.IntValue(0))
	return nil
}

// OpenMenu queues an immediate close with selection 0.
func (c *Console) OpenMenu(kind int64) error {
	c.log.Debug("menu", "kind", kind)
	c.queue(vm.WakeCondition{Kind: vm.WakeMenuClosed, Target: kind}, vm.IntValue(0))
	return nil
}

// HasItem reports whether the party holds at least one of the item.
func (c *Console) HasItem(itemID int64) (bool, error) {
	return c.items[itemID] > 0, nil
}

// AddItem adjusts an item count. Negative counts remove; the count
// never goes below zero.
func (c *Console) AddItem(itemID, count int64) error {
	c.items[itemID] += count
	if c.items[itemID] <= 0 {
		delete(c.items, itemID)
	}
	return nil
}

// Gold returns the party's gold.
func (c *Console) Gold() (int64, error) {
	return c.gold, nil
}
