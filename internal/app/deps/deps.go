package deps

import (
	"context"
	"os"
	"pwreset/internal/config"
	dl "pwreset/internal/core/domain/logging"
	"pwreset/internal/core/domain/mail"
	"pwreset/internal/core/domain/user"
	"pwreset/internal/db"
	dbuser "pwreset/internal/db/user"
	"pwreset/internal/implementations/email"
	"pwreset/internal/implementations/logging"
	passwordhasher "pwreset/internal/implementations/password_hasher"
	passwordresettoken "pwreset/internal/implementations/password_reset_token"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB *pgxpool.Pool

	Now func() time.Time

	UserRepository     user.UserRepository
	PasswordHasher     user.PasswordHasher
	PasswordResetToken user.PasswordResetTokenIssuer

	EmailTemplates mail.TemplateStore
	EmailSender    mail.Sender
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()

	closeLogger := deps.initLogger()
	deps.applyMigrations()
	closePgxPool := deps.initPgxPool()

	deps.Now = func() time.Time { return time.Now().UTC() }
	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetToken = passwordresettoken.NewJWT(
		deps.Config.PasswordResetTokenSecret,
		deps.Config.PasswordResetValidDuration,
		deps.Now,
	)

	deps.initEmailTemplates()
	deps.initEmailSender()

	return deps, func() {
		closeFuncs := []func(){
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger(deps.Config.LogLevel)
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) applyMigrations() {
	if deps.Config.MigrationsPath == "" {
		deps.Logger.Info(context.Background(), "Migrations are disabled.")
		return
	}
	if err := db.ApplyMigrations(deps.Config.PostgresqlURL, deps.Config.MigrationsPath); err != nil {
		deps.Logger.Error(context.Background(), "Could not apply migrations.", dl.Entry("err", err))
		panic(err)
	}
	deps.Logger.Info(context.Background(), "Migrations applied.", dl.Entry("path", deps.Config.MigrationsPath))
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initEmailTemplates() {
	fsys := email.DefaultTemplates()
	if deps.Config.EmailTemplatesPath != "" {
		fsys = os.DirFS(deps.Config.EmailTemplatesPath)
	}

	templates, err := email.NewTemplateStore(fsys)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not load email templates.", dl.Entry("err", err))
		panic(err)
	}
	if _, err := templates.GetTemplate(deps.Config.PasswordResetTemplate); err != nil {
		deps.Logger.Warning(
			context.Background(),
			"Password reset template is missing, reset emails will fail.",
			dl.Entry("template", deps.Config.PasswordResetTemplate),
		)
	}
	deps.EmailTemplates = templates
}

func (deps *Deps) initEmailSender() {
	switch deps.Config.EmailTransport {
	case config.EmailTransportSMTP:
		deps.EmailSender = email.NewSMTPSender(
			deps.Config.SMTPHost,
			deps.Config.SMTPPort,
			deps.Config.SMTPUser,
			deps.Config.SMTPPassword,
			deps.Config.EmailSender,
		)
	case config.EmailTransportSendGrid:
		deps.EmailSender = email.NewSendGridSender(
			deps.Config.SendGridAPIKey,
			deps.Config.EmailSender,
			deps.Config.EmailSenderName,
		)
	default:
		deps.EmailSender = email.NewSESSender(deps.initAwsConfig(), deps.Config.EmailSender)
	}
	deps.Logger.Info(
		context.Background(),
		"Email sender initialized.",
		dl.Entry("transport", deps.Config.EmailTransport),
	)
}

func (deps *Deps) initAwsConfig() aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	return cfg
}
