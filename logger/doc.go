// Package logger provides structured logging built on zerolog.
//
// A single global logger is initialized from config at startup; components
// obtain tagged sub-loggers via WithComponent or the named registry.
//
//	logger.Init(cfg.Logging)
//	log := logger.WithComponent("pipeline")
//	log.Info("transcription committed", logger.Fields("chars", n))
package logger
