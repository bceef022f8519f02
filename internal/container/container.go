package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/qixeo/qixeo-web/config"
	"github.com/qixeo/qixeo-web/pkg/helpers"
	"github.com/qixeo/qixeo-web/pkg/mailer"
	mailtpl "github.com/qixeo/qixeo-web/pkg/mailer/templates"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager *helpers.JWTManager

	mailgunClient *mailer.Mailgun
	rabbitQueue   *helpers.RabbitQueue
	mailSender    mailer.Sender
	esClient      *elasticsearch.Client
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetMailgun(m *mailer.Mailgun)          { mailgunClient = m }
func GetMailgun() *mailer.Mailgun           { return mailgunClient }
func SetRabbitQueue(q *helpers.RabbitQueue) { rabbitQueue = q }
func GetRabbitQueue() *helpers.RabbitQueue  { return rabbitQueue }
func SetES(c *elasticsearch.Client)         { esClient = c }
func GetES() *elasticsearch.Client          { return esClient }

// SetMailSender overrides the sender chosen by GetMailSender.
func SetMailSender(s mailer.Sender) { mailSender = s }

// GetMailSender picks how outgoing email leaves the process: dropped when
// MAIL_SEND_ENABLED is false, queued when a RabbitMQ queue is set, sent
// inline through Mailgun when a client is set. With no transport at all every
// delivery fails with mailer.ErrNoTransport.
func GetMailSender() mailer.Sender {
	if mailSender != nil {
		return mailSender
	}
	switch {
	case cfg != nil && !cfg.MailSendEnabled:
		return &mailer.LogSender{Logger: logger}
	case rabbitQueue != nil:
		return &mailer.QueueSender{Pub: rabbitQueue}
	case mailgunClient != nil:
		s := &mailer.DirectSender{Mailgun: mailgunClient}
		if cfg != nil && cfg.GeoLookupEnabled {
			s.Resolver = mailtpl.IPAPIResolver{}
		}
		return s
	default:
		return mailer.UnavailableSender{}
	}
}
