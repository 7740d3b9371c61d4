//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ShareIt-Rental/service-shareit/internal/application"
	"github.com/ShareIt-Rental/service-shareit/internal/events"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/database"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/kafka"
	"github.com/ShareIt-Rental/service-shareit/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// shareitStack holds wired-up services over real repositories.
type shareitStack struct {
	Users           *application.UserService
	Items           *application.ItemService
	Bookings        *application.BookingService
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_shareit",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_shareit",
		SSLMode:  "disable",
	}

	db, err := database.Connect(cfg, log)
	require.NoError(t, err, "PostgreSQL not ready for connections")
	require.NoError(t, database.RunMigrations(cfg.DatabaseURL(), log))

	// confluent-local runs KRaft without a separate zookeeper.
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupShareitStack wires the services the way cmd/server does.
func setupShareitStack(t *testing.T, db *gorm.DB, brokers []string) *shareitStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormRequestRepository(db)

	producer := kafka.NewProducer(brokers, logger)
	publisher := events.NewKafkaPublisher(producer, events.TopicBookingEvents)

	return &shareitStack{
		Users:           application.NewUserService(userRepo, logger),
		Items:           application.NewItemService(itemRepo, userRepo, bookingRepo, commentRepo, requestRepo, logger),
		Bookings:        application.NewBookingService(bookingRepo, itemRepo, userRepo, publisher, logger),
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedOwnerAndItem creates an owner with one available item and a separate booker.
func seedOwnerAndItem(t *testing.T, stack *shareitStack) (owner, booker *application.UserDTO, item *application.ItemDTO) {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.New().String()[:8]

	owner, err := stack.Users.CreateUser(ctx, application.CreateUserRequest{
		Name: "owner", Email: fmt.Sprintf("owner-%s@example.com", suffix),
	})
	require.NoError(t, err)
	booker, err = stack.Users.CreateUser(ctx, application.CreateUserRequest{
		Name: "booker", Email: fmt.Sprintf("booker-%s@example.com", suffix),
	})
	require.NoError(t, err)

	available := true
	item, err = stack.Items.CreateItem(ctx, owner.ID, application.CreateItemRequest{
		Name: "Cordless drill", Description: "18V with two batteries", Available: &available,
	})
	require.NoError(t, err)
	return owner, booker, item
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type and key.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, key string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		if string(msg.Key) != key {
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
