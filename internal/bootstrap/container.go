package bootstrap

import (
	"log"

	"ai-therapy-be/internal/config"
	"ai-therapy-be/internal/controller"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/mailer"
	"ai-therapy-be/internal/repository/memory"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/internal/service"
	"ai-therapy-be/pkg/events"
	"ai-therapy-be/pkg/llm/factory"
	pkgNats "ai-therapy-be/pkg/nats"
	"ai-therapy-be/pkg/therapist"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	ChatController     controller.IChatController
	MoodController     controller.IMoodController
	ActivityController controller.IActivityController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	AlertService    service.IAlertService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Infrastructure
	localBus := events.NewLocalBus()

	publishers := []events.Publisher{localBus}
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		publishers = append(publishers, natsPub)
	}
	notifier := events.NewNotifier(sysLogger, publishers...)

	var alertSubscriber service.EventSubscriber
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		alertSubscriber = natsSub
	}

	// 3. Model Gateway
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	gateway := therapist.NewGateway(llmProvider, sysLogger)

	// In-memory per-session turn state
	turnState := memory.NewTurnStateRepository()

	// 4. Services
	authService := service.NewAuthService(uowFactory, emailService, sysLogger, cfg.App.JwtSecret)
	chatService := service.NewChatService(uowFactory, gateway, notifier, turnState, sysLogger)
	moodService := service.NewMoodService(uowFactory, notifier)
	activityService := service.NewActivityService(uowFactory, notifier)
	consumerService := service.NewConsumerService(localBus, uowFactory)
	alertService := service.NewAlertService(alertSubscriber, uowFactory, emailService, sysLogger)

	// 5. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		ChatController:     controller.NewChatController(chatService),
		MoodController:     controller.NewMoodController(moodService),
		ActivityController: controller.NewActivityController(activityService),

		ConsumerService: consumerService,
		AlertService:    alertService,
		Logger:          sysLogger,
	}
}
