package xslog

import (
	"log/slog"
	"time"

	"github.com/garrettladley/rrdash/internal/version"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Path(path string) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, path)
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func From(t time.Time) slog.Attr {
	const fromKey = "from"
	return slog.Time(fromKey, t)
}

func To(t time.Time) slog.Attr {
	const toKey = "to"
	return slog.Time(toKey, t)
}

func SessionID(id string) slog.Attr {
	const sessionIDKey = "session_id"
	return slog.String(sessionIDKey, id)
}

func UserID(id string) slog.Attr {
	const userIDKey = "user_id"
	return slog.String(userIDKey, id)
}

func View(name string) slog.Attr {
	const viewKey = "view"
	return slog.String(viewKey, name)
}

func Kind(kind string) slog.Attr {
	const kindKey = "kind"
	return slog.String(kindKey, kind)
}

func Status(status string) slog.Attr {
	const statusKey = "view_status"
	return slog.String(statusKey, status)
}

func Seq(seq uint64) slog.Attr {
	const seqKey = "seq"
	return slog.Uint64(seqKey, seq)
}

func Code(code string) slog.Attr {
	const codeKey = "code"
	return slog.String(codeKey, code)
}

func Key(key string) slog.Attr {
	const keyKey = "key"
	return slog.String(keyKey, key)
}

func Backend(name string) slog.Attr {
	const backendKey = "backend"
	return slog.String(backendKey, name)
}

func Method(method string) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, method)
}
