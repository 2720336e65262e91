package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config структура конфигурации.
type Config struct {
	Logger    LogConf       // Logger - конфигурация регистратора.
	Universe  UniverseConf  // Universe - вселенная DMX и её патч.
	Animation AnimationConf // Animation - параметры анимации.
	ArtNet    ArtNetConf    `toml:"artnet"` // ArtNet - выход Art-Net.
	MQTT      MQTTConf      // MQTT - конфигурация MQTT клиента.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level  string `toml:"log-level"`  // Level - уровень логирования.
	Format string `toml:"log-format"` // Format - text или json.
}

// UniverseConf describes the universe and what is patched into it.
type UniverseConf struct {
	Name     string      `toml:"name"`     // Name - имя вселенной в логах и топиках.
	Output   []string    `toml:"output"`   // Output - artnet, mqtt, recorder.
	History  int         `toml:"history"`  // History - сколько снимков хранит recorder.
	Profiles string      `toml:"profiles"` // Profiles - путь к YAML библиотеке профилей.
	Patch    []PatchConf `toml:"patch"`    // Patch - порядок приборов, пустой патч = вся вселенная.
}

// PatchConf is one run of identical fixtures. Count 0 fills the rest of the universe.
type PatchConf struct {
	Profile string `toml:"profile"`
	Count   int    `toml:"count"`
}

// AnimationConf структура конфигурации.
type AnimationConf struct {
	FPS int `toml:"fps"` // FPS - кадров в секунду.
}

// ArtNetConf структура конфигурации.
type ArtNetConf struct {
	Universe uint16 `toml:"universe"` // Universe: старший байт - Net, младший байт - SubUni.
	Network  string `toml:"network"`  // Network - CIDR сети Art-Net.
	MaxFPS   int    `toml:"max-fps"`  // MaxFPS - ограничение частоты отправки.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID string `toml:"clientID"` // ClientID - имя клиента.
	Host     string `toml:"server"`   // Host - адрес MQTT сервера.
	Port     string `toml:"port"`     // Port - порт MQTT сервера.
	User     string `toml:"user"`     // User - логин для подключения к MQTT серверу.
	Password string `toml:"password"` // Password - пароль для подключения к MQTT серверу.
	Qos      byte   `toml:"qos"`      // Qos - качество обслуживания.
	Prefix   string `toml:"prefix"`   // Prefix - корень топиков.
}

// ProfileConf is one fixture profile of the YAML library.
type ProfileConf struct {
	Name     string   `yaml:"name"`
	Channels []string `yaml:"channels"`
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Config{
		Logger:    LogConf{Level: "info"},
		Universe:  UniverseConf{Name: "main", Output: []string{"recorder"}, History: 16},
		Animation: AnimationConf{FPS: 30},
		ArtNet:    ArtNetConf{Network: "192.168.6.0/24", MaxFPS: 40},
		MQTT:      MQTTConf{Port: "1883", Prefix: "rdmx"},
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

// LoadProfiles reads a YAML list of fixture profiles keyed by name.
func LoadProfiles(path string) (map[string]ProfileConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes a YAML profile library.
func ParseProfiles(data []byte) (map[string]ProfileConf, error) {
	var list struct {
		Profiles []ProfileConf `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}

	profiles := make(map[string]ProfileConf, len(list.Profiles))
	for _, p := range list.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("parse profiles: profile without a name")
		}
		if _, ok := profiles[p.Name]; ok {
			return nil, fmt.Errorf("parse profiles: duplicate profile %q", p.Name)
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}
