package artnet

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Haba1234/go-artnet"
	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var ErrNotStarted = errors.New("art-net controller is not started")

// ArtNet is transport for the ArtNet protocol (DMX over UDP/IP).
type ArtNet struct {
	logger      logger.Logger
	sender      *artnet.Controller
	address     artnet.Address
	sendTrigger chan [universe.NumChannels]byte
	ctx         context.Context
}

// NewController returns an art-net transport for one universe.
func NewController(log logger.Logger, cfg Conf) (*ArtNet, error) {
	ip, err := FindArtNetIP(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("failed to find the art-net IP: %w", err)
	}

	if len(ip) == 0 {
		return nil, errors.New("failed to find the art-net IP: No interface found")
	}

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve hostname: %w", err)
	}

	host = strings.ToLower(strings.Split(host, ".")[0])
	log.With(logger.Fields{"module": "art-net"}).Infof("Using ArtNet IP %s and hostname %s", ip.String(), host)

	senderLogger := artnet.NewDefaultLogger("info")

	control := &ArtNet{
		logger:      log,
		sender:      artnet.NewController(host, ip, senderLogger, artnet.MaxFPS(cfg.MaxFPS)),
		address:     universeToAddress(cfg.Universe),
		sendTrigger: make(chan [universe.NumChannels]byte, 1),
	}

	return control, nil
}

// Start the ArtNet. report, if set, receives the visible nodes every 30 seconds.
func (c *ArtNet) Start(ctx context.Context, report func([]NodeInfo)) error {
	if err := c.sender.Start(); err != nil {
		return fmt.Errorf("failed to start Controller: %w", err)
	}

	c.ctx = ctx
	go c.sendBackground()
	go c.debugDevices(report)
	return nil
}

// Stop the ArtNet.
func (c *ArtNet) Stop() {
	c.sender.Stop()
}

// Send queues a snapshot for the background sender. Only the latest
// queued snapshot is kept.
func (c *ArtNet) Send(snapshot [universe.NumChannels]byte) error {
	if c.ctx == nil {
		return ErrNotStarted
	}
	for {
		select {
		case c.sendTrigger <- snapshot:
			return nil
		default:
		}
		select {
		case stale := <-c.sendTrigger:
			c.logger.With(logger.Fields{"module": "art-net"}).Debugf("DMX. Dropping stale snapshot (ch0=%d)", stale[0])
		default:
		}
	}
}

func (c *ArtNet) sendBackground() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case dmx := <-c.sendTrigger:
			c.logger.With(logger.Fields{"module": "art-net"}).Debugf("DMX. Sending to address %v", c.address.String())
			c.sender.SendDMXToAddress(dmx, c.address)
		}
	}
}

// universeToAddress converts a dmx universe to art-net address
// universe: старший байт - Net, младший байт - SubUni.
func universeToAddress(n uint16) artnet.Address {
	v := make([]uint8, 2)
	binary.BigEndian.PutUint16(v, n)

	return artnet.Address{
		Net:    v[0],
		SubUni: v[1],
	}
}

// nodeInfo converts a controlled node for logging and reporting.
func nodeInfo(n *artnet.ControlledNode) NodeInfo {
	info := NodeInfo{
		Name:         n.Node.Name,
		IP:           n.UDPAddress.String(),
		Type:         fmt.Sprint(n.Node.Type),
		Manufacturer: n.Node.Manufacturer,
		Description:  n.Node.Description,
	}

	for _, p := range n.Node.InputPorts {
		info.Inputs = append(info.Inputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
	}

	for _, p := range n.Node.OutputPorts {
		info.Outputs = append(info.Outputs, fmt.Sprintf("%s: %s", p.Address.String(), p.Type.String()))
		info.OutputAddr = append(info.OutputAddr, uint16(p.Address.Integer()))
	}

	return info
}

func (c *ArtNet) debugDevices(report func([]NodeInfo)) {
	t := time.NewTicker(30 * time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-t.C:
		}

		nodes := make([]NodeInfo, 0, len(c.sender.Nodes))
		for _, n := range c.sender.Nodes {
			nodes = append(nodes, nodeInfo(n))
		}
		c.logger.With(logger.Fields{"module": "art-net"}).Debugf("Currently %d devices are registered: %v", len(nodes), nodes)
		if report != nil {
			report(nodes)
		}
	}
}
