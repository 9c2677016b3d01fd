package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"Hive_Community/internal/model"
	"Hive_Community/internal/pkg"
	"Hive_Community/internal/repository/mysql"
	"Hive_Community/internal/repository/redis"
	"Hive_Community/internal/router"
	"Hive_Community/internal/service"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	// .env不存在时用环境变量兜底
	_ = godotenv.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	dsn := env("DB_DSN", "user:password@tcp(127.0.0.1:3306)/hive?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		logrus.WithError(err).Fatal("mysql init failed")
	}

	// 连接redis
	redisDB, _ := strconv.Atoi(env("REDIS_DB", "0"))
	if err := redis.Init(env("REDIS_ADDR", "127.0.0.1:6379"), os.Getenv("REDIS_PASSWORD"), redisDB); err != nil {
		logrus.WithError(err).Fatal("redis init failed")
	}
	defer redis.Close()

	pkg.SetJWTSecrets(env("JWT_ACCESS_SECRET", "dev-access-secret"), env("JWT_REFRESH_SECRET", "dev-refresh-secret"))

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Community{},
		&model.CommunityMember{},
		&model.Channel{},
		&model.ChannelMember{},
		&model.Thread{},
		&model.ThreadLike{},
		&model.NotificationOutbox{},
	); err != nil {
		logrus.WithError(err).Fatal("migrate failed")
	}

	store := mysql.NewStore(mysql.DB)
	dispatcher := service.NewOutboxDispatcher(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// kafka 未配置时退化为日志投递
	sender := service.Sender(service.LogSender)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   env("KAFKA_TOPIC", "hive-notifications"),
		})
		if err != nil {
			logrus.WithError(err).Fatal("kafka init failed")
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	go service.NewOutboxRelayer(store, sender).Run(ctx)

	// 成员计数对账
	go service.NewMemberCountReconciler(store).Run(ctx)

	smtpPort, _ := strconv.Atoi(env("SMTP_PORT", "587"))
	smtp := pkg.SMTPConfig{
		Host:     env("SMTP_HOST", "smtp.example.com"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     env("SMTP_FROM", "NoReply <no-reply@example.com>"),
	}

	r := router.InitRouter(router.Deps{
		Store:      store,
		Dispatcher: dispatcher,
		SMTP:       smtp,
	})
	if err := r.Run(":" + env("PORT", "8080")); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
