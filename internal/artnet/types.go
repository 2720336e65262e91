package artnet

import (
	"fmt"
	"strings"
)

// Conf configures the Art-Net output.
type Conf struct {
	Universe uint16 // Universe: старший байт - Net, младший байт - SubUni.
	Network  string // Network - CIDR сети, в которой ищем интерфейс.
	MaxFPS   int    // MaxFPS - ограничение частоты отправки контроллером.
}

// NodeInfo describes an Art-Net node seen on the network.
type NodeInfo struct {
	Name         string
	IP           string
	Type         string
	Manufacturer string
	Description  string
	Inputs       []string
	Outputs      []string
	OutputAddr   []uint16
}

func (n NodeInfo) String() string {
	return fmt.Sprintf(
		" | IP=%s name=%q type=%q manufacturer=%q desc=%q inputs=%q outputs=%q",
		n.IP, n.Name, n.Type, n.Manufacturer, n.Description,
		strings.Join(n.Inputs, "; "), strings.Join(n.Outputs, "; "),
	)
}
