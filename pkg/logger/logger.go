package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger de la aplicación.
type Config struct {
	Service string    // nombre del servicio, fijado en cada línea
	Env     string    // development -> consola legible; otro -> JSON
	Level   string    // trace..error; vacío -> debug en development, info en el resto
	Writer  io.Writer // destino; nil -> os.Stdout
}

// Logger wrapper sobre zerolog con los campos del servicio ya fijados.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger estructurado del servicio. Cada línea lleva service y
// env; en development la salida es consola legible, en el resto JSON.
func New(cfg Config) *Logger {
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	zl := zerolog.New(w).Level(levelFor(cfg)).With().
		Timestamp().
		Str("service", cfg.Service).
		Str("env", cfg.Env).
		Logger()

	// Redirigir el logger global de zerolog para librerías que lo usen
	log.Logger = zl

	return &Logger{zl: zl}
}

// levelFor resuelve el nivel: el configurado si es válido; si no viene,
// debug en development e info en el resto.
func levelFor(cfg Config) zerolog.Level {
	if cfg.Level == "" {
		if cfg.Env == "development" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(cfg.Level); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// WithComponent devuelve un sublogger con el campo component fijo
// (http, postgres, pdf...).
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

// Debug, Info, Warn, Error, Fatal delegados a zerolog.
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
