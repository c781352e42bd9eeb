package broker

import (
	"encoding/json"
	"fmt"

	"conveyor/pkg/api"
	"conveyor/pkg/events"
	"conveyor/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	// RabbitMQType Broker type RabbitMQ
	RabbitMQType Type = "rabbitmq"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asRabbitMQConf, isRabbitMQConf := c.(*RabbitMQConfig)
		if !isRabbitMQConf {
			return nil, errors.Errorf("given configuration struct is not type %v", RabbitMQConfig{})
		}
		return NewRabbitMQBroker(ctx, *asRabbitMQConf)
	}
	register(RabbitMQType, f, &RabbitMQConfig{})
}

type rabbitmq struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	config RabbitMQConfig
}

// RabbitMQConfig is configuration for the rabbitmq broker implementation.
type RabbitMQConfig struct {
	User     string `json:"user" env:"BROKER_RABBITMQ_USER"`
	Password string `json:"password" env:"BROKER_RABBITMQ_PASSWORD"`
	URI      string `json:"uri" env:"BROKER_RABBITMQ_URI"`
}

// NewRabbitMQBroker returns a Broker implementation based on RabbitMQ.
func NewRabbitMQBroker(ctx context.Context, conf RabbitMQConfig) (Broker, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s", conf.User, conf.Password, conf.URI)
	ctx.Logger().Infof("connecting to rabbitmq at '%s'", conf.URI)
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rabbitmq at '%s'", conf.URI)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "cannot open channel to rabbitmq")
	}
	return &rabbitmq{
		conn:   conn,
		ch:     ch,
		config: conf,
	}, nil
}

func (q *rabbitmq) Publish(ctx context.Context, evt events.Event, qname string) error {
	ctx.Logger().Tracef("publishing event %s to exchange %s", evt, qname)
	headers := amqp.Table{
		api.HeaderRunID:   evt.RunID,
		api.HeaderJobName: evt.Job,
		api.HeaderUnitID:  evt.UnitID,
		api.HeaderType:    string(evt.Type),
	}

	body, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrapf(err, "cannot marshal event %s", evt)
	}

	return q.ch.Publish(
		qname, // exchange
		"",    // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
		})
}

func (q *rabbitmq) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	return q.conn.Close()
}
