package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/convoisukraine/convoysbackend/auth"
	"github.com/convoisukraine/convoysbackend/config"
	"github.com/convoisukraine/convoysbackend/controllers"
	"github.com/convoisukraine/convoysbackend/database"
	"github.com/convoisukraine/convoysbackend/mail"
	"github.com/convoisukraine/convoysbackend/middleware"
	"github.com/convoisukraine/convoysbackend/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	cols := database.OpenCollections(client, cfg)
	if err := database.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	users := store.NewUsers(cols.Users)
	convoys := store.NewConvoys(cols.Convoys, cols.Users)
	collects := store.NewCollects(cols.Collects, cols.Users, cols.Convoys)

	tokens := auth.NewTokenService(cfg)
	cookies := auth.NewCookieWriter(cfg)
	mailer := mail.NewMailer(cfg)

	authCtrl := controllers.NewAuthController(users, tokens, cookies, mailer, cfg)
	usersCtrl := controllers.NewUsersController(users, tokens, cookies)
	convoysCtrl := controllers.NewConvoysController(convoys)
	collectsCtrl := controllers.NewCollectsController(collects)

	r := gin.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	startedAt := time.Now()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World at %s", startedAt.UTC().Format(time.RFC3339))
	})

	authenticated := middleware.AuthMiddleware(tokens, users)

	user := r.Group("/user")
	{
		user.POST("/signin", authCtrl.Signin())
		user.POST("/forgot_password", authCtrl.ForgotPassword())
		user.POST("/forgot_password_reset", authCtrl.ForgotPasswordReset())
		user.POST("", usersCtrl.Create())

		user.GET("/signin-token", authenticated, authCtrl.SigninToken())
		user.POST("/logout", authenticated, authCtrl.Logout())
		user.GET("/me", authenticated, usersCtrl.Me())
		user.PUT("", authenticated, usersCtrl.Update())
		user.POST("/reset_password", authenticated, usersCtrl.ResetPassword())
		user.DELETE("/:_id", authenticated, usersCtrl.Delete())
	}

	convoy := r.Group("/convoy", authenticated)
	{
		convoy.GET("", convoysCtrl.List())
		convoy.GET("/:_id", convoysCtrl.Get())
		convoy.POST("", convoysCtrl.Create())
		convoy.PUT("/:_id", convoysCtrl.Update())
		convoy.DELETE("/:_id", convoysCtrl.Delete())
	}

	collect := r.Group("/collect", authenticated)
	{
		collect.GET("", collectsCtrl.List())
		collect.GET("/:_id", collectsCtrl.Get())
		collect.POST("", collectsCtrl.Create())
		collect.PUT("/:_id", collectsCtrl.Update())
		collect.DELETE("/:_id", collectsCtrl.Delete())
	}

	log.Printf("RUN ON PORT %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
