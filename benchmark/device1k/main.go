package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	iotGrpc "liyu1981.xyz/iot-telemetry-service/pkg/grpc"
)

var maxDevices int = 1000
var messagesPerDevice int = 3
var settleTime = 5 * time.Second

var mqttBroker string = "tcp://127.0.0.1:1883"
var mqttTopic string = "cefet/iot"
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient *iotGrpc.ReadoutClient
var mqttClient mqtt.Client

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	deviceIDs := make([]int64, maxDevices)
	base := time.Now().Unix() * 1000
	for i := range maxDevices {
		deviceIDs[i] = base + int64(i)
	}
	fmt.Printf("generated %v device IDs starting at %v\n", maxDevices, base)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := dialReadout(grpcHostPort)
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = iotGrpc.NewReadoutClient(conn)

	fmt.Printf("gRPC server verified and connected\n")

	opts := mqtt.NewClientOptions().
		AddBroker(mqttBroker).
		SetClientID("device1k-" + uuid.NewString()[:8])
	mqttClient = mqtt.NewClient(opts)
	if token := mqttClient.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal("Failed to connect to MQTT broker:", token.Error())
	}
	defer mqttClient.Disconnect(250)

	fmt.Printf("mqtt broker connected\n")

	var startTime time.Time
	var usedTime time.Duration
	var sent atomic.Int64

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lat, long := rndFloat64(-90, 90, 4), rndFloat64(-180, 180, 4)
			for n := range messagesPerDevice {
				if publishMeasurement(deviceIDs[i], lat, long, startTime.Unix()+int64(n)) {
					sent.Add(1)
				}
			}
			fmt.Printf("\rpublished measurements for device %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rpublished %v measurements for %v devices: used time=%v seconds, throughput=%v msg/second\n",
		sent.Load(), maxDevices, usedTime.Seconds(), float64(sent.Load())/usedTime.Seconds(),
	)

	fmt.Printf("waiting %v for the subscriber to drain\n", settleTime)
	time.Sleep(settleTime)

	var stored atomic.Int64
	var incomplete atomic.Int64

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count := countReadings(deviceIDs[i])
			stored.Add(int64(count))
			if count != messagesPerDevice {
				incomplete.Add(1)
			}
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"read back %v measurements (%v devices incomplete): used time=%v seconds, throughput=%v reads/second\n",
		stored.Load(), incomplete.Load(), usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)
}

func dialReadout(hostPort string) (*grpc.ClientConn, error) {
	return grpc.NewClient(hostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := math.Pow10(decimal)
	return math.Round(val*multiplier) / multiplier
}

// publishMeasurement sends one reading over MQTT, or over HTTP for about
// half the calls.
func publishMeasurement(deviceID int64, lat, long float64, timestamp int64) bool {
	payload := map[string]any{
		"id":          deviceID,
		"lat":         lat,
		"long":        long,
		"temperatura": rndFloat64(-10.0, 45.0, 2),
		"umidade":     rndFloat64(0.0, 100.0, 2),
		"timestamp":   timestamp,
	}
	jsonData, _ := json.Marshal(payload)

	if flipCoin() {
		delete(payload, "id")
		body, _ := json.Marshal(payload)
		resp, err := http.Post(fmt.Sprintf("http://%s/devices/%d/measurements", httpHostPort, deviceID), "application/json", bytes.NewBuffer(body))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			fmt.Printf("\nresponse status code != 201: %v\n", resp.Status)
			return false
		}
		return true
	}

	token := mqttClient.Publish(mqttTopic, 1, false, jsonData)
	if token.Wait() && token.Error() != nil {
		fmt.Printf("\nerror: %v\n", token.Error())
		return false
	}
	return true
}

func countReadings(deviceID int64) int {
	if flipCoin() {
		resp, err := http.Get(fmt.Sprintf("http://%s/devices/%d/readings", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return 0
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp.Status)
			return 0
		}
		var readings []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&readings); err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return 0
		}
		return len(readings)
	}

	req, _ := structpb.NewStruct(map[string]any{"device_id": deviceID})
	resp, err := grpcClient.ListReadings(context.Background(), req)
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return 0
	}
	if !resp.GetFields()["status"].GetStructValue().GetFields()["success"].GetBoolValue() {
		fmt.Printf("\nresponse success = false: %v\n", resp)
		return 0
	}
	return len(resp.GetFields()["readings"].GetListValue().GetValues())
}
