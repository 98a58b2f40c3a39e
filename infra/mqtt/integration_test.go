package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremqtt "github.com/kilianp07/fleetalloc/core/mqtt"
)

const mosquittoConf = `listener 1883
allow_anonymous true
persistence false
`

// TestIntegration publishes a plan through a real Mosquitto broker.
func TestIntegration(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	confPath := t.TempDir() + "/mosquitto.conf"
	if err := os.WriteFile(confPath, []byte(mosquittoConf), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
		Files: []tc.ContainerFile{{
			HostFilePath:      confPath,
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0o644,
		}},
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	defer func() { _ = container.Terminate(ctx) }()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("sub"))
	var tok paho.Token
	for i := 0; i < 10; i++ {
		tok = sub.Connect()
		if tok.Wait() && tok.Error() == nil {
			break
		}
		time.Sleep(300 * time.Millisecond)
	}
	if tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)

	got := make(chan []byte, 1)
	if tok := sub.Subscribe("fleet/+/tasks", 1, func(_ paho.Client, m paho.Message) { got <- m.Payload() }); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	cli, err := NewPahoClient(Config{Broker: broker, QoS: map[string]byte{QoSPlan: 1}})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	defer cli.Disconnect()
	if _, err := cli.PublishPlan(ctx, coremqtt.Plan{RunID: "r", VehicleID: "uav1", Tasks: []string{"2"}}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case b := <-got:
		var env struct {
			Payload coremqtt.Plan `json:"payload"`
		}
		if err := json.Unmarshal(b, &env); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if env.Payload.VehicleID != "uav1" || len(env.Payload.Tasks) != 1 {
			t.Fatalf("unexpected plan %+v", env.Payload)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for plan")
	}
}
