// mqtt.go - Forwards content events to an MQTT broker

package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// MQTTSink publishes every event as JSON to "<prefix>/<type with dots as slashes>",
// e.g. blog/post/created.
type MQTTSink struct {
	client  mqtt.Client
	prefix  string
	log     *logrus.Logger
	publish func(topic string, payload []byte) error
}

// NewMQTTSink connects to broker.
func NewMQTTSink(broker, clientID, prefix string, log *logrus.Logger) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15 * time.Second) {
		return nil, errors.New("mqtt connect timed out")
	}
	if err := token.Error(); err != nil {
		return nil, err
	}

	s := &MQTTSink{client: client, prefix: prefix, log: log}
	s.publish = func(topic string, payload []byte) error {
		t := client.Publish(topic, 1, false, payload)
		if !t.WaitTimeout(publishTimeout) {
			return errors.New("mqtt publish timed out")
		}
		return t.Error()
	}
	return s, nil
}

// Topic returns the topic an event type is published on.
func (s *MQTTSink) Topic(eventType string) string {
	return strings.TrimSuffix(s.prefix, "/") + "/" + strings.ReplaceAll(eventType, ".", "/")
}

// Run forwards events until ctx is done or the channel closes.
func (s *MQTTSink) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(e)
			if err != nil {
				s.log.WithError(err).Error("encode event")
				continue
			}
			if err := s.publish(s.Topic(e.Type), payload); err != nil {
				s.log.WithError(err).WithField("type", e.Type).Warn("mqtt publish failed")
			}
		}
	}
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
}
