package universe

import (
	"fmt"
	"strconv"
)

// Profile describes the channels one fixture occupies, in address order.
type Profile struct {
	Name     string
	Channels []string
}

// Width returns the number of channels the profile occupies.
func (p Profile) Width() int { return len(p.Channels) }

func (p Profile) index(name string) (int, bool) {
	for i, ch := range p.Channels {
		if ch == name {
			return i, true
		}
	}
	return 0, false
}

// Allotment asks for Count consecutive fixtures of one profile.
type Allotment struct {
	Profile Profile
	Count   int
}

// Layout is an ordered list of allotments patched from channel 0.
// A nil layout patches a single fixture spanning the whole universe.
type Layout []Allotment

// Uniform fills the universe with as many fixtures of p as fit.
func Uniform(p Profile) Layout {
	if p.Width() == 0 {
		return Layout{{Profile: p, Count: 1}}
	}
	return Layout{{Profile: p, Count: NumChannels / p.Width()}}
}

func wholeUniverse() Profile {
	names := make([]string, NumChannels)
	for i := range names {
		names[i] = strconv.Itoa(i + 1)
	}
	return Profile{Name: "universe", Channels: names}
}

// Fixture is a unit patched at Address. It writes only its own block
// through the channels it was bound to. Fixtures from Universe.Fixtures are
// bound to the universe and must not be used inside Universe.Batch; rebind
// them with Tx.Fixture or take them from Tx.Fixtures.
type Fixture struct {
	ch      Channels
	Address int
	Profile Profile
}

// Fixtures is an allocation in address order.
type Fixtures []*Fixture

// Addresses returns the start channel of every fixture.
func (fs Fixtures) Addresses() []int {
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = f.Address
	}
	return out
}

// Allocate patches layout onto c. Either every fixture is created or none is.
func Allocate(c Channels, layout Layout) (Fixtures, error) {
	if layout == nil {
		layout = Layout{{Profile: wholeUniverse(), Count: 1}}
	}

	used := 0
	for _, a := range layout {
		switch {
		case a.Count < 0:
			return nil, &InvalidShapeError{Profile: a.Profile.Name, Channels: used, Reason: "negative count"}
		case a.Profile.Width() == 0 && a.Count > 0:
			return nil, &InvalidShapeError{Profile: a.Profile.Name, Channels: used, Reason: "profile has no channels"}
		}
		if a.Count == 0 {
			continue
		}
		if a.Count > (NumChannels-used)/a.Profile.Width() {
			return nil, &InvalidShapeError{
				Profile:  a.Profile.Name,
				Channels: used,
				Reason:   fmt.Sprintf("%d more fixtures exceed %d channels", a.Count, NumChannels),
			}
		}
		used += a.Profile.Width() * a.Count
	}

	fixtures := Fixtures{}
	address := 0
	for _, a := range layout {
		for i := 0; i < a.Count; i++ {
			fixtures = append(fixtures, &Fixture{ch: c, Address: address, Profile: a.Profile})
			address += a.Profile.Width()
		}
	}
	return fixtures, nil
}

// Channels returns the block of channels the fixture occupies.
func (f *Fixture) Channels() Range {
	return Block(f.Address, f.Profile.Width())
}

// On returns a copy of f that reads and writes through c, typically a *Tx.
func (f *Fixture) On(c Channels) *Fixture {
	bound := *f
	bound.ch = c
	return &bound
}

// Get reads the named channel of the fixture.
func (f *Fixture) Get(name string) (byte, error) {
	i, ok := f.Profile.index(name)
	if !ok {
		return 0, fmt.Errorf("fixture %s@%d has no channel %q", f.Profile.Name, f.Address, name)
	}
	return f.ch.Get(f.Address + i)
}

// Set writes the named channel of the fixture.
func (f *Fixture) Set(name string, value byte) error {
	i, ok := f.Profile.index(name)
	if !ok {
		return fmt.Errorf("fixture %s@%d has no channel %q", f.Profile.Name, f.Address, name)
	}
	return f.ch.Set(f.Address+i, value)
}

// SetAll writes values over the fixture's block, repeating them as needed.
func (f *Fixture) SetAll(values ...byte) error {
	return f.ch.SetRange(f.Channels(), values...)
}

// Levels returns the fixture's channel values in profile order.
func (f *Fixture) Levels() ([]byte, error) {
	return f.ch.Slice(f.Channels())
}
