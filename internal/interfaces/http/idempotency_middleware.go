package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/cache"
)

// HeaderIdempotencyKey cabecera que identifica un request reintentable.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// idempotencyStore contrato mínimo que necesita el middleware. Lo implementa
// *cache.IdempotencyStore; en tests se usa un store en memoria.
type idempotencyStore interface {
	Get(ctx context.Context, key string) (*cache.Response, bool, error)
	Lock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
	Save(ctx context.Context, key string, resp cache.Response) error
}

// Idempotency repite la respuesta guardada cuando un POST/PATCH/DELETE llega de nuevo con la
// misma Idempotency-Key. Solo se guardan respuestas 2xx: un error se puede reintentar.
//
// Comportamiento:
//   - sin cabecera o sin store: el request pasa sin cambios.
//   - misma clave con otro método, ruta o cuerpo: 422 IDEMPOTENCY_KEY_REUSED.
//   - misma clave mientras el primer request sigue en curso: 409 IDEMPOTENCY_IN_PROGRESS.
//   - fallo de Redis: se registra y el request se procesa sin caché.
func Idempotency(store idempotencyStore, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if store == nil {
			return c.Next()
		}
		method := c.Method()
		if method != fiber.MethodPost && method != fiber.MethodPatch && method != fiber.MethodPut && method != fiber.MethodDelete {
			return c.Next()
		}
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLength {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "Idempotency-Key demasiado larga"})
		}

		ctx := c.Context()
		scoped := GetUserID(c) + ":" + key
		hash := requestHash(method, c.OriginalURL(), c.Body(), GetUserID(c))

		cached, found, err := store.Get(ctx, scoped)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency: lectura fallida, se procesa sin caché")
			return c.Next()
		}
		if found {
			return replay(c, cached, hash)
		}

		locked, err := store.Lock(ctx, scoped)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency: reserva fallida, se procesa sin caché")
			return c.Next()
		}
		if !locked {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_IN_PROGRESS", Message: "hay un request con la misma Idempotency-Key en curso"})
		}
		defer func() {
			if err := store.Unlock(ctx, scoped); err != nil {
				log.Warn().Err(err).Msg("idempotency: no se pudo liberar la reserva")
			}
		}()

		// Otro request pudo terminar y liberar la reserva entre el Get y el Lock.
		cached, found, err = store.Get(ctx, scoped)
		if err != nil {
			log.Warn().Err(err).Msg("idempotency: lectura fallida, se procesa sin caché")
		} else if found {
			return replay(c, cached, hash)
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}
		body := make([]byte, len(c.Response().Body()))
		copy(body, c.Response().Body())
		resp := cache.Response{
			RequestHash: hash,
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
		}
		if err := store.Save(ctx, scoped, resp); err != nil {
			log.Warn().Err(err).Msg("idempotency: no se pudo guardar la respuesta")
		}
		return nil
	}
}

// replay devuelve la respuesta guardada, o 422 si la clave vino con otro request.
func replay(c *fiber.Ctx, cached *cache.Response, hash string) error {
	if cached.RequestHash != hash {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "IDEMPOTENCY_KEY_REUSED", Message: "Idempotency-Key usada con otro request"})
	}
	c.Set("Idempotent-Replayed", "true")
	if cached.ContentType != "" {
		c.Set(fiber.HeaderContentType, cached.ContentType)
	}
	return c.Status(cached.Status).Send(cached.Body)
}

// requestHash huella determinista method|path|body|user.
func requestHash(method, path string, body []byte, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}
