package config

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/blog-backend/internal/models"
	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	mongoConnectTimeout = 10 * time.Second
	maxMongoRetry       = time.Minute
)

// DB holds the database connections. Postgres is nil unless POSTGRES_URL is set.
// The MongoDB client may arrive after startup; until then Collection fails with repositories.ErrStoreUnavailable.
type DB struct {
	Postgres *gorm.DB

	mu       sync.RWMutex
	mongo    *mongo.Client
	database *mongo.Database
	indexers []IndexEnsurer

	dbName        string
	retryInterval time.Duration
	stopRetry     context.CancelFunc
	retryDone     chan struct{}

	log *logrus.Logger
}

// IndexEnsurer is implemented by repositories that own collection indexes.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// InitDB opens the shared MongoDB client and, when configured, the PostgreSQL denylist database.
// A MongoDB failure never stops startup: it is logged and the connection is retried in the background.
func InitDB(ctx context.Context, cfg *Config, log *logrus.Logger) (*DB, error) {
	db := &DB{
		dbName:        cfg.MongoDatabase,
		retryInterval: 5 * time.Second,
		log:           log,
	}

	if cfg.PostgresUrl != "" {
		pg, err := initPostgres(cfg.PostgresUrl, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		db.Postgres = pg
	}

	if cfg.MongoURI == "" {
		log.Error("No MongoDB URI configured; store-backed routes will answer 503")
		return db, nil
	}

	client, err := connectMongo(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Error("Failed to connect to MongoDB, retrying in the background")
		db.startReconnect(ctx, cfg.MongoURI)
		return db, nil
	}
	db.attach(client)
	pingMongo(ctx, client, log)
	return db, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).SetStrict(false).SetDeprecationErrors(true)
	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	return mongo.Connect(ctx, clientOptions)
}

// pingMongo only reports reachability; the driver keeps reconnecting on its own once a client exists.
func pingMongo(ctx context.Context, client *mongo.Client, log *logrus.Logger) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.WithError(err).Error("MongoDB ping failed, continuing; requests will fail until it is reachable")
		return
	}
	log.Info("Successfully connected to MongoDB!")
}

func (db *DB) attach(client *mongo.Client) []IndexEnsurer {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.mongo = client
	db.database = client.Database(db.dbName)
	return db.indexers
}

// startReconnect retries mongo.Connect with a doubling delay until it succeeds, ctx ends or CloseDB runs.
func (db *DB) startReconnect(ctx context.Context, uri string) {
	ctx, cancel := context.WithCancel(ctx)
	db.stopRetry = cancel
	db.retryDone = make(chan struct{})

	go func() {
		defer close(db.retryDone)

		delay := db.retryInterval
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			client, err := connectMongo(ctx, uri)
			if err != nil {
				db.log.WithError(err).WithField("retry_in", delay*2).Warn("MongoDB still unreachable")
				if delay *= 2; delay > maxMongoRetry {
					delay = maxMongoRetry
				}
				continue
			}

			indexers := db.attach(client)
			db.log.Info("MongoDB client established")
			db.ensureIndexes(ctx, indexers)
			return
		}
	}()
}

// Connected reports whether a MongoDB client exists.
func (db *DB) Connected() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.database != nil
}

// Collection implements repositories.Database.
func (db *DB) Collection(name string) (*mongo.Collection, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.database == nil {
		return nil, repositories.ErrStoreUnavailable
	}
	return db.database.Collection(name), nil
}

// EnsureIndexes creates collection indexes now, or once the background connection succeeds.
// Failures are logged; the affected feature degrades instead of blocking startup.
func (db *DB) EnsureIndexes(ctx context.Context, repos ...IndexEnsurer) {
	db.mu.Lock()
	db.indexers = append(db.indexers, repos...)
	connected := db.database != nil
	db.mu.Unlock()

	if connected {
		db.ensureIndexes(ctx, repos)
	}
}

func (db *DB) ensureIndexes(ctx context.Context, repos []IndexEnsurer) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	for _, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil && !errors.Is(err, context.Canceled) {
			db.log.WithError(err).Warn("Index creation failed")
		}
	}
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.RevokedToken{}); err != nil {
		return nil, fmt.Errorf("auto migrate revoked tokens: %w", err)
	}

	log.Info("Successfully connected to PostgreSQL!")
	return db, nil
}

// CloseDB stops any pending MongoDB retry and closes the database connections
func (db *DB) CloseDB() {
	if db.stopRetry != nil {
		db.stopRetry()
		<-db.retryDone
	}

	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.log.WithError(err).Error("Error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			db.log.WithError(err).Error("Error closing PostgreSQL connection")
		} else {
			db.log.Info("PostgreSQL connection closed.")
		}
	}

	db.mu.Lock()
	client := db.mongo
	db.mongo, db.database = nil, nil
	db.mu.Unlock()

	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			db.log.WithError(err).Error("Error closing MongoDB connection")
		} else {
			db.log.Info("MongoDB connection closed.")
		}
	}
}
