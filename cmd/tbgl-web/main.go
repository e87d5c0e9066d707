// Command tbgl-web serves the linking pipeline over HTTP.
//
// Configuration comes from the environment (a .env file is honored):
//
//	PORT           listen port, default 8080
//	GEMINI_API_KEY enables the LLM analyzer when set
//	GEMINI_MODEL   overrides the analyzer model
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/tuteke2023/tbgllink"
	"github.com/tuteke2023/tbgllink/llm"
	"github.com/tuteke2023/tbgllink/web"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// .env is optional
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var analyzer tbgllink.Analyzer
	a, err := llm.NewAnalyzer(context.Background(), log)
	if err != nil {
		log.Warn().Err(err).Msg("analyzer unavailable, using heuristics only")
	} else {
		analyzer = a
	}

	server, err := web.NewServer(log, tbgllink.DefaultConfig(), analyzer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}
	defer server.Close()

	log.Info().Str("port", port).Msg("listening")
	if err := server.Router().Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
