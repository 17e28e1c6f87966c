//go:build integration

package notify_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/burenvoorburen/helpdesk/internal/helpdesk/notify"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestAMQPSinkPublishesEvent(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3.13-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForListeningPort("5672/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5672/tcp")
	require.NoError(t, err)
	url := fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port())

	var sink *notify.AMQPSink
	require.Eventually(t, func() bool {
		sink, err = notify.NewAMQPSink(url, "helpdesk.test")
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	defer sink.Close()

	conn, err := amqp.Dial(url)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, notify.RoutingKeyRequestCreated, "helpdesk.test", false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	require.NoError(t, sink.Send(ctx, []string{"ExponentPushToken[a]"}, notify.NewHelpRequestMessage("01XYZ")))

	select {
	case d := <-deliveries:
		var ev notify.Event
		require.NoError(t, json.Unmarshal(d.Body, &ev))
		require.Equal(t, "new_help_request", ev.Type)
		require.Equal(t, []string{"ExponentPushToken[a]"}, ev.Tokens)
		require.Equal(t, "01XYZ", ev.Data["requestId"])
	case <-time.After(10 * time.Second):
		t.Fatal("no message delivered")
	}
}
