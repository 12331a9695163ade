package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/iot-telemetry-service/pkg/common"
	"liyu1981.xyz/iot-telemetry-service/pkg/config"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	default:
		return "unknown"
	}
}

// Subscriber binds an Ingestor to the MQTT topic. paho owns reconnection;
// the connect handler re-subscribes after every (re)connect and messages are
// delivered one at a time.
type Subscriber struct {
	Config   *config.Config
	Ingestor *Ingestor

	client mqtt.Client
	state  atomic.Int32
	fatal  chan error
	logger *zap.Logger
}

func NewSubscriber(cfg *config.Config, ingestor *Ingestor) *Subscriber {
	return &Subscriber{
		Config:   cfg,
		Ingestor: ingestor,
		fatal:    make(chan error, 1),
		logger:   common.GetLoggerWith(common.LoggerNameSubscriber, zap.String("topic", cfg.MQTTTopic)),
	}
}

func (s *Subscriber) State() State {
	return State(s.state.Load())
}

func (s *Subscriber) setState(state State) {
	if prev := State(s.state.Swap(int32(state))); prev != state {
		s.logger.Info("Subscriber state changed", zap.Stringer("from", prev), zap.Stringer("to", state))
	}
}

// Fatal delivers the first error that must stop the process: storage loss
// or a subscription the broker refused.
func (s *Subscriber) Fatal() <-chan error {
	return s.fatal
}

func (s *Subscriber) ClientOptions() *mqtt.ClientOptions {
	o := mqtt.NewClientOptions()
	o.AddBroker(s.Config.MQTTBroker)
	o.SetClientID(s.Config.MQTTClientID)
	o.SetKeepAlive(60 * time.Second)
	o.SetCleanSession(true)
	o.SetOrderMatters(true)
	o.SetAutoReconnect(true)
	o.SetConnectRetry(true)
	o.SetConnectRetryInterval(2 * time.Second)
	o.SetOnConnectHandler(s.onConnect)
	o.SetConnectionLostHandler(s.onConnectionLost)
	o.SetReconnectingHandler(s.onReconnecting)
	o.SetDefaultPublishHandler(s.onMessage)
	return o
}

// Start connects to the broker and returns once the first connection is up
// or ctx is done. Subscription happens in the connect handler.
func (s *Subscriber) Start(ctx context.Context) error {
	s.setState(StateConnecting)
	s.client = mqtt.NewClient(s.ClientOptions())

	s.logger.Info("Connecting to broker",
		zap.String("broker", s.Config.MQTTBroker),
		zap.String("client_id", s.Config.MQTTClientID))

	token := s.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			s.setState(StateDisconnected)
			return err
		}
		return nil
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	}
}

func (s *Subscriber) Stop() {
	if s.client != nil {
		s.client.Disconnect(250)
	}
	s.setState(StateDisconnected)
}

func (s *Subscriber) onConnect(c mqtt.Client) {
	s.logger.Info("Connected to broker")

	// an unsubscribed connection ingests nothing
	token := c.Subscribe(s.Config.MQTTTopic, byte(s.Config.MQTTQoS), s.onMessage)
	if token.Wait() && token.Error() != nil {
		s.logger.Error("Subscribe failed", zap.Error(token.Error()))
		s.setState(StateDisconnected)
		s.signalFatal(fmt.Errorf("subscribe to %s: %w", s.Config.MQTTTopic, token.Error()))
		return
	}

	s.setState(StateSubscribed)
}

func (s *Subscriber) onConnectionLost(_ mqtt.Client, err error) {
	s.logger.Warn("Connection to broker lost", zap.Error(err))
	s.setState(StateDisconnected)
}

func (s *Subscriber) onReconnecting(_ mqtt.Client, _ *mqtt.ClientOptions) {
	s.setState(StateConnecting)
}

// onMessage runs on paho's delivery goroutine. Nothing may escape it: an
// error is logged, a panic is recovered, and only storage loss is escalated
// through Fatal.
func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	logger := s.logger.With(zap.String("msg_topic", msg.Topic()), zap.Uint16("msg_id", msg.MessageID()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic while handling message", zap.Any("panic", r))
		}
	}()

	logger.Debug("Received message", zap.ByteString("payload", msg.Payload()))

	payload, err := s.Ingestor.Handle(context.Background(), msg.Payload())

	switch {
	case err == nil:
		return
	case errors.Is(err, common.ErrMalformedPayload):
		logger.Warn("Discarded malformed payload", zap.ByteString("payload", msg.Payload()), zap.Error(err))
	case errors.Is(err, common.ErrRateLimited):
		logger.Warn("Dropped rate limited message", zap.Int64("device_id", payload.DeviceID))
	case errors.Is(err, common.ErrConstraintViolation):
		logger.Error("Dropped message violating a storage constraint", zap.Reflect("payload", payload), zap.Error(err))
	case common.IsFatal(err):
		logger.Error("Storage unavailable", zap.Error(err))
		s.signalFatal(err)
	default:
		logger.Error("Failed to ingest message", zap.Reflect("payload", payload), zap.Error(err))
	}
}

func (s *Subscriber) signalFatal(err error) {
	select {
	case s.fatal <- err:
	default:
	}
}
