package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connected - подключен ли клиент (1) или нет (0).
	Connected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tmichat_connected",
		Help: "Whether the chat session is authenticated (1) or not (0)",
	})

	// JoinedChannels - количество каналов, в которые вошёл клиент.
	JoinedChannels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tmichat_joined_channels",
		Help: "Number of channels the client has joined",
	})

	// MessagesReceived - входящие сообщения по командам.
	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmichat_messages_received_total",
			Help: "Total number of received protocol messages per command",
		},
		[]string{"command"},
	)

	// UnknownCommands - команды без обработчика.
	UnknownCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmichat_unknown_commands_total",
			Help: "Total number of received messages with an unrecognized command",
		},
		[]string{"command"},
	)

	// FramingErrors - строки, которые не удалось разобрать.
	FramingErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tmichat_framing_errors_total",
		Help: "Total number of protocol lines that failed to parse",
	})

	// LinesWritten - исходящие строки по командам.
	LinesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmichat_lines_written_total",
			Help: "Total number of lines written per command",
		},
		[]string{"command"},
	)

	// EventsPublished - опубликованные события по типам.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmichat_events_published_total",
			Help: "Total number of published domain events per kind",
		},
		[]string{"kind"},
	)

	// DispatchTime - время обработки одного сообщения.
	DispatchTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmichat_dispatch_milliseconds",
			Help:    "Time to dispatch one protocol message",
			Buckets: prometheus.ExponentialBuckets(0.00005, 1.5, 25),
		},
	)
)
