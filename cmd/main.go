package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rdmx/internal/animation"
	"rdmx/internal/artnet"
	"rdmx/internal/clientmqtt"
	"rdmx/internal/config"
	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var (
	configFile string
	demo       bool
)

func init() {
	flag.StringVar(&configFile, "config", "configs/conf.toml", "Path to configuration file")
	flag.BoolVar(&demo, "demo", false, "Fade every fixture up and down until stopped")
}

func main() {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v", err)
		os.Exit(1)
	}

	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	clock, err := animation.NewClock(cfg.Animation.FPS)
	if err != nil {
		log.With(logger.Fields{"module": "animation"}).Errorf("bad animation settings: %v", err)
		os.Exit(1)
	}

	layout, err := BuildLayout(cfg.Universe)
	if err != nil {
		log.With(logger.Fields{"module": "universe"}).Errorf("bad patch: %v", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	var (
		outputs []universe.Transport
		client  *clientmqtt.ClientMQTT
		art     *artnet.ArtNet
	)
	for _, name := range cfg.Universe.Output {
		switch name {
		case "artnet":
			art, err = artnet.NewController(log, ConvertConfigArtNet(cfg.ArtNet))
			if err != nil {
				log.With(logger.Fields{"module": "art-net"}).Errorf("error while creating a new controller art-net. %v", err)
				os.Exit(1)
			}
			log.With(logger.Fields{"module": "art-net"}).Debug("NewController created ok")
			outputs = append(outputs, universe.WithLogging(art, log, name))
		case "mqtt":
			client = clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT), cfg.Universe.Name)
			log.With(logger.Fields{"module": "mqtt"}).Debug("NewClient created ok")
			outputs = append(outputs, universe.WithLogging(client, log, name))
		case "recorder":
			outputs = append(outputs, universe.WithLogging(universe.NewRecorder(cfg.Universe.History), log, name))
		default:
			log.With(logger.Fields{"module": "universe"}).Errorf("unknown output %q", name)
			os.Exit(1)
		}
	}

	if art != nil {
		var report func([]artnet.NodeInfo)
		if client != nil {
			report = client.PubNodes
		}
		if err = art.Start(ctx, report); err != nil {
			log.Error("failed to start art-net service:", err.Error())
			cancel()
		}
	}

	if client != nil {
		if err = client.Connect(ctx); err != nil {
			log.Error("failed to start MQTT service:", err.Error())
			os.Exit(1)
		}
	}

	u, err := universe.New(cfg.Universe.Name, universe.Multi(outputs...), log, layout)
	if err != nil {
		log.With(logger.Fields{"module": "universe"}).Errorf("failed to create universe: %v", err)
		os.Exit(1)
	}
	log.With(logger.Fields{"module": "universe"}).Infof("universe %s ready with %d fixtures", u.Name(), len(u.Fixtures()))

	if client != nil {
		if err = client.Start(u); err != nil {
			log.Error("failed to subscribe MQTT commands:", err.Error())
			cancel()
		}
	}

	if demo {
		go runDemo(ctx, log, clock, u)
	}

	<-ctx.Done()

	if client != nil {
		if err := client.Stop(); err != nil {
			log.Error("failed to stop MQTT service:", err.Error())
		}
	}

	if art != nil {
		art.Stop()
	}

	log.Info("shutdown complete")
}

// runDemo fades every channel of the universe up and back down until ctx is done.
func runDemo(ctx context.Context, log logger.Logger, clock animation.Clock, u *universe.Universe) {
	l := log.With(logger.Fields{"module": "demo"})
	fades := [...]animation.Interval{animation.Span(0, 255), animation.Span(255, 0)}
	for i := 0; ; i = (i + 1) % len(fades) {
		if err := animation.Fade(ctx, clock, u, universe.All, fades[i], animation.Seconds(2)); err != nil {
			if !errors.Is(err, context.Canceled) {
				l.Errorf("fade failed: %v", err)
			}
			return
		}
		if err := animation.Wait(ctx, time.Duration(animation.Milliseconds(500)*float64(time.Second))); err != nil {
			return
		}
	}
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf) clientmqtt.MQTTConf {
	return clientmqtt.MQTTConf{
		ClientID: cfg.ClientID,
		Schema:   "tcp",
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Qos:      cfg.Qos,
		Prefix:   cfg.Prefix,
	}
}

// ConvertConfigArtNet преобразует структуры.
func ConvertConfigArtNet(cfg config.ArtNetConf) artnet.Conf {
	return artnet.Conf{
		Universe: cfg.Universe,
		Network:  cfg.Network,
		MaxFPS:   cfg.MaxFPS,
	}
}
