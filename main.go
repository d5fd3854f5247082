package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/database"
	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/careersynchrony/careerworker/internal/tasks"
	"github.com/joho/godotenv"
	"github.com/streadway/amqp"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		log.Fatal("empty DB_URL in environment")
	}

	rabbitmqUrl := os.Getenv("RABBITMQ_URL")
	if rabbitmqUrl == "" {
		log.Fatal("empty RABBITMQ_URL in env")
	}

	db, err := sql.Open("postgres", dbUrl)
	if err != nil {
		log.Fatal("error opening db. err: ", err)
	}

	dbqueries := database.New(db)

	r2AccountId := os.Getenv("R2_ACCOUNT_ID")
	if r2AccountId == "" {
		log.Fatal("empty R2_ACCOUNT_ID in environment")
	}
	r2Bucket := os.Getenv("R2_BUCKET")
	if r2Bucket == "" {
		log.Fatal("empty R2_BUCKET in environment")
	}
	r2SecretKey := os.Getenv("R2_SECRET_KEY")
	if r2SecretKey == "" {
		log.Fatal("empty R2_SECRET_KEY in environment")
	}
	r2AccessKey := os.Getenv("R2_ACCESS_KEY")
	if r2AccessKey == "" {
		log.Fatal("empty R2_ACCESS_KEY in environment")
	}
	r2Config := R2Config{
		AccountID: r2AccountId,
		AccessKey: r2AccessKey,
		SecretKey: r2SecretKey,
		Bucket:    r2Bucket,
	}
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2Config.AccessKey, r2Config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		log.Fatal("error creating aws config", err)
	}

	provider := os.Getenv("MODEL_PROVIDER")
	if provider == "" {
		provider = gateway.ProviderOpenAI
	}
	apiKeyEnv := "OPENAI_API_KEY"
	if provider == gateway.ProviderGemini {
		apiKeyEnv = "GOOGLE_API_KEY"
	}
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		log.Fatalf("empty %s in env", apiKeyEnv)
	}

	gw, err := gateway.New(context.Background(), gateway.Config{
		Provider: provider,
		APIKey:   apiKey,
	})
	if err != nil {
		log.Fatalf("failed to create model gateway: %v", err)
	}

	chatModel := os.Getenv("CHAT_MODEL")
	visionModel := os.Getenv("VISION_MODEL")
	if chatModel == "" {
		chatModel = tasks.ChatModel
		if provider == gateway.ProviderGemini {
			chatModel = tasks.GeminiChatModel
		}
	}
	if visionModel == "" {
		visionModel = tasks.VisionModel
		if provider == gateway.ProviderGemini {
			visionModel = tasks.GeminiVisionModel
		}
	}

	transcriber := content.NewImageTranscriber(gw, visionModel)
	normalizer := content.NewNormalizer(transcriber)

	conn, err := amqp.Dial(rabbitmqUrl)
	if err != nil {
		log.Fatalf("error connecting to RabbitMQ. err:  %v", err)
	}

	workerConfig := WorkerConfig{
		DB:          dbqueries,
		Objects:     newR2ObjectStore(awsConfig, r2Config),
		Publisher:   &amqpPublisher{conn: conn},
		Gateway:     gw,
		Normalizer:  normalizer,
		RABBITMQUrl: rabbitmqUrl,
		ChatModel:   chatModel,
	}

	slog.Info("starting workers consumer pool", "workers", 3)
	workerConfig.StartConsumerWorkerPool(3)
}
