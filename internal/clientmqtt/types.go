package clientmqtt

import (
	"fmt"

	"rdmx/internal/universe"
)

type MQTTConf struct {
	ClientID string // ClientID - уникальное имя клиента для брокеров.
	Schema   string // Schema - тип подключения.
	Host     string // Host - адрес MQTT сервера.
	Port     string // Port - порт MQTT сервера.
	User     string // User - логин для подключения к MQTT серверу.
	Password string // Password - пароль для подключения к MQTT серверу.
	Qos      byte   // Qos - качество обслуживания.
	Prefix   string // Prefix - корень топиков.
}

// DMXCommand writes Values starting at Channel, or over a whole fixture.
// With Count set the values are repeated over Count channels.
type DMXCommand struct {
	Channel int   `json:"channel"`
	Count   int   `json:"count,omitempty"`
	Fixture *int  `json:"fixture,omitempty"`
	Values  []int `json:"values"`
}

// Payload is the body of a command message; it is applied as one batch.
type Payload []DMXCommand

// Target is the universe commands are applied to.
type Target interface {
	Name() string
	Batch(fn func(tx *universe.Tx) error) error
	Fixtures() universe.Fixtures
}

func (cmd DMXCommand) levels() ([]byte, error) {
	if len(cmd.Values) == 0 {
		return nil, universe.ErrNoValues
	}
	out := make([]byte, len(cmd.Values))
	for i, v := range cmd.Values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("value %d is not a DMX level", v)
		}
		out[i] = byte(v)
	}
	return out, nil
}

func (cmd DMXCommand) apply(tx *universe.Tx, fixtures universe.Fixtures) error {
	levels, err := cmd.levels()
	if err != nil {
		return err
	}

	if cmd.Fixture != nil {
		i := *cmd.Fixture
		if i < 0 || i >= len(fixtures) {
			return fmt.Errorf("fixture %d is not patched", i)
		}
		return tx.Fixture(fixtures[i]).SetAll(levels...)
	}

	count := cmd.Count
	if count == 0 {
		count = len(levels)
	}
	return tx.SetRange(universe.Block(cmd.Channel, count), levels...)
}

// Apply writes every command of p to target in a single batch.
func Apply(target Target, p Payload) error {
	fixtures := target.Fixtures()
	return target.Batch(func(tx *universe.Tx) error {
		for i, cmd := range p {
			if err := cmd.apply(tx, fixtures); err != nil {
				return fmt.Errorf("command %d: %w", i, err)
			}
		}
		return nil
	})
}
