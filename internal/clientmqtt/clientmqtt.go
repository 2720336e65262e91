package clientmqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"rdmx/internal/artnet"
	"rdmx/internal/logger"
	"rdmx/internal/universe"
)

var ErrNotConnected = errors.New("mqtt client is not connected")

// ClientMQTT структура клиента MQTT.
// It publishes universe state on every flush and applies command messages.
type ClientMQTT struct {
	ctx       context.Context
	log       logger.Logger
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions
	target    Target
	topics    topics
}

type topics struct {
	set   string
	state string
	nodes string
}

func newTopics(prefix, name string) topics {
	return topics{
		set:   fmt.Sprintf("%s/%s/set", prefix, name),
		state: fmt.Sprintf("%s/%s/state", prefix, name),
		nodes: fmt.Sprintf("%s/artnet/nodes", prefix),
	}
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf, name string) *ClientMQTT {
	if cfgClient.ClientID == "" {
		cfgClient.ClientID = "rdmx-" + uuid.NewString()
	}
	if cfgClient.Schema == "" {
		cfgClient.Schema = "tcp"
	}
	return &ClientMQTT{
		log:       log,
		cfgClient: cfgClient,
		topics:    newTopics(cfgClient.Prefix, name),
	}
}

// Connect opens the broker connection. Send works once it returns.
func (c *ClientMQTT) Connect(ctx context.Context) error {
	mqttLog := c.log.With(logger.Fields{"module": "paho"})
	mqtt.ERROR = mqttLog
	mqtt.CRITICAL = mqttLog
	if c.log.GetLevel() == "debug" {
		mqtt.WARN = mqttLog
	}

	c.ctx = ctx

	c.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetDefaultPublishHandler(c.messageHandler).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(false).
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

// Start subscribes to the command topic of target.
func (c *ClientMQTT) Start(target Target) error {
	if c.client == nil {
		return ErrNotConnected
	}
	c.target = target
	c.sub(c.topics.set)
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// Send publishes a snapshot as a retained JSON array of levels.
func (c *ClientMQTT) Send(snapshot [universe.NumChannels]byte) error {
	if c.client == nil {
		return ErrNotConnected
	}
	levels := make([]int, len(snapshot))
	for i, v := range snapshot {
		levels[i] = int(v)
	}
	msg, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("state message: %w", err)
	}
	c.publish(c.topics.state, true, msg)
	return nil
}

// PubNodes publishes the Art-Net nodes seen on the network.
func (c *ClientMQTT) PubNodes(nodes []artnet.NodeInfo) {
	msg, err := json.Marshal(nodes)
	if err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("nodes message: %v", err)
		return
	}
	c.publish(c.topics.nodes, true, msg)
}

func (c *ClientMQTT) connectHandler(_ mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("received message: %s from topic: %s", msg.Payload(), msg.Topic())
	if err := c.handle(msg.Topic(), msg.Payload()); err != nil {
		c.log.With(logger.Fields{"module": "mqtt"}).Errorf("message from %s rejected: %v", msg.Topic(), err)
	}
}

func (c *ClientMQTT) handle(topic string, body []byte) error {
	if topic != c.topics.set {
		return fmt.Errorf("unexpected topic %s", topic)
	}
	if c.target == nil {
		return errors.New("no universe attached")
	}

	var data Payload
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("message could not be parsed: %w", err)
	}
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("message payload parsed. Result: %v", data)
	return Apply(c.target, data)
}

func (c *ClientMQTT) sub(topic string) {
	token := c.client.Subscribe(topic, c.cfgClient.Qos, nil)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("topic %s subscription error. %v", topic, token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("topic %s subscribed", topic)
	}()
}

func (c *ClientMQTT) publish(topic string, retained bool, msg []byte) {
	token := c.client.Publish(topic, c.cfgClient.Qos, retained, msg)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v", topic, token.Error())
			}
		}
	}()
}
