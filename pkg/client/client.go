package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Alexandrudiun/spaces/pkg/logger"
)

// Client holds the two database connections the service uses: desks and
// users live in separate databases and are handed to their repositories
// explicitly, never through globals.
type Client struct {
	DesksMongo *mongo.Client
	UsersMongo *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetDesksMongo(log *logger.Logger, uri string, connTimeout time.Duration) {
	c.DesksMongo = connect(log, "desks", uri, connTimeout)
}

func (c *Client) SetUsersMongo(log *logger.Logger, uri string, connTimeout time.Duration) {
	c.UsersMongo = connect(log, "users", uri, connTimeout)
}

func connect(log *logger.Logger, name, uri string, connTimeout time.Duration) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "connection", name, "error", err)
	}
	if err := cli.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "connection", name, "error", err)
	}

	log.Info("Successfully connected to MongoDB", "connection", name)
	return cli
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for name, cli := range map[string]*mongo.Client{"desks": c.DesksMongo, "users": c.UsersMongo} {
		if cli == nil {
			continue
		}
		if err := cli.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB client", "connection", name, "error", err)
		}
	}
}
