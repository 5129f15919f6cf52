package container

// Tokens for the components the application wires at startup.
const (
	TokenConfig         Token = "config"
	TokenLogger         Token = "logger"
	TokenPGPool         Token = "pg.pool"
	TokenRedis          Token = "redis.client"
	TokenES             Token = "es.client"
	TokenRabbitPub      Token = "rabbit.publisher"
	TokenUserRepository Token = "user.repository"
	TokenEventPublisher Token = "event.publisher"
	TokenNotifier       Token = "notification.service"
	TokenUserService    Token = "user.service"
)
