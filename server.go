package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	redis "github.com/go-redis/redis/v8"
	"github.com/gocql/gocql"
	fiber "github.com/gofiber/fiber/v2"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hsn8086/re-hcat-server/config"
	"github.com/hsn8086/re-hcat-server/errors"
	"github.com/hsn8086/re-hcat-server/events"
	"github.com/hsn8086/re-hcat-server/global"
	"github.com/hsn8086/re-hcat-server/helpers"
	"github.com/hsn8086/re-hcat-server/monitors"
	"github.com/hsn8086/re-hcat-server/routes"
	"github.com/hsn8086/re-hcat-server/storage"
)

func init() {

	internalErrorsFile, err := os.OpenFile("internal_errors.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	monitorLogsFile, err := os.OpenFile("monitor_logs.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	errors.HandleFatalError(err)

	global.InternalLogger = log.New(internalErrorsFile, "", log.LstdFlags)
	global.MonitorLogger = log.New(monitorLogsFile, "", log.LstdFlags)

	data, err := os.ReadFile("./config.json")
	errors.HandleFatalError(err)

	err = json.Unmarshal(data, &config.Config)
	errors.HandleFatalError(err)

	// symmetric key: create on first run, else load; losing this file
	// invalidates every previously issued session credential
	keyPath := "./server.key"
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		key, err := helpers.RandomTokenString(16)
		errors.HandleFatalError(err)
		errors.HandleFatalError(os.WriteFile(keyPath, []byte(key), 0600))
		global.SecretKey = []byte(key)
	} else {
		key, err := os.ReadFile(keyPath)
		errors.HandleFatalError(err)
		global.SecretKey = key
	}

	switch config.Config.Storage.Driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.Config.Storage.Redis.Addr,
			Password: config.Config.Storage.Redis.Password,
			DB:       config.Config.Storage.Redis.DB,
		})
		global.Accounts = storage.NewRedisStore(client, "account")
		global.Groups = storage.NewRedisStore(client, "group")
		global.Events = storage.NewRedisStore(client, "event")
		fmt.Println("Redis store initialized")
	case "scylla":
		cluster := gocql.NewCluster(config.Config.Storage.Scylla.Addr)
		cluster.Keyspace = config.Config.Storage.Scylla.Keyspace
		session, err := cluster.CreateSession()
		errors.HandleFatalError(err)
		global.Accounts, err = storage.NewScyllaStore(session, "account")
		errors.HandleFatalError(err)
		global.Groups, err = storage.NewScyllaStore(session, "group")
		errors.HandleFatalError(err)
		global.Events, err = storage.NewScyllaStore(session, "event")
		errors.HandleFatalError(err)
		fmt.Println("ScyllaDB store initialized")
		fmt.Printf("Keyspace: %s\n\n", cluster.Keyspace)
	default:
		dataDir := config.Config.Storage.DataDir
		if dataDir == "" {
			dataDir = "./data"
		}
		global.Accounts, err = storage.NewFileStore(filepath.Join(dataDir, "account"))
		errors.HandleFatalError(err)
		global.Groups, err = storage.NewFileStore(filepath.Join(dataDir, "group"))
		errors.HandleFatalError(err)
		global.Events, err = storage.NewFileStore(filepath.Join(dataDir, "event"))
		errors.HandleFatalError(err)
	}

	if config.Config.MinIO.Enable {
		global.MinIOClient, err = minio.New(config.Config.MinIO.Addr, &minio.Options{
			Creds:  credentials.NewStaticV4(config.Config.MinIO.User, config.Config.MinIO.Password, ""),
			Secure: false,
		})
		errors.HandleFatalError(err)

		exists, err := global.MinIOClient.BucketExists(global.Context, "files")
		errors.HandleFatalError(err)
		if !exists {
			global.MinIOClient.MakeBucket(global.Context, "files", minio.MakeBucketOptions{})
		}
	}
}

func main() {

	defer global.Accounts.Close()
	defer global.Groups.Close()
	defer global.Events.Close()

	app := fiber.New()
	defer app.Shutdown()

	events.SetEvents()
	routes.SetRoutes(app)

	go monitors.ActivityLoop()
	go monitors.CleanerLoop()

	addr := config.Config.Host + ":" + config.Config.Port

	fmt.Println("Starting server on " + addr)
	if config.Config.SSL.Enable {
		log.Fatal(app.ListenTLS(addr, config.Config.SSL.Cert, config.Config.SSL.Key))
	} else {
		log.Fatal(app.Listen(addr))
	}
}
