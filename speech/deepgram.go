package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const keepAliveEvery = 5 * time.Second

type DeepgramConfig struct {
	URL        string
	APIKey     string
	Model      string
	Language   string
	SampleRate int
	Channels   int
}

type deepgramResponse struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// Deepgram streams linear16 PCM from src to a /v1/listen websocket with
// interim results enabled. src is shared by every session of the engine, so
// a restart continues where the previous session stopped reading. Close
// releases the reader goroutine.
type Deepgram struct {
	cfg    DeepgramConfig
	src    io.Reader
	log    logrus.FieldLogger
	dialer *websocket.Dialer

	pump     sync.Once
	chunks   chan []byte
	pumpDone chan struct{}
	closing  sync.Once
	closed   chan struct{}

	mu  sync.Mutex
	cur *stream
}

// stream is one websocket session.
type stream struct {
	conn     *websocket.Conn
	cancel   context.CancelFunc
	wmu      sync.Mutex
	stopping atomic.Bool
}

func (s *stream) write(mt int, data []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.conn.WriteMessage(mt, data)
}

func NewDeepgram(cfg DeepgramConfig, src io.Reader, log logrus.FieldLogger) *Deepgram {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &Deepgram{
		cfg:    cfg,
		src:    src,
		log:    log.WithField("engine", "deepgram"),
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		closed: make(chan struct{}),
	}
}

func (d *Deepgram) Available() bool {
	return d.cfg.APIKey != "" && d.src != nil && d.cfg.URL != ""
}

func (d *Deepgram) endpoint() (string, error) {
	u, err := url.Parse(d.cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if d.cfg.Model != "" {
		q.Set("model", d.cfg.Model)
	}
	if d.cfg.Language != "" {
		q.Set("language", d.cfg.Language)
	}
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", d.cfg.SampleRate))
	q.Set("channels", fmt.Sprintf("%d", d.cfg.Channels))
	q.Set("interim_results", "true")
	q.Set("punctuate", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (d *Deepgram) Start(ctx context.Context, h Handler) error {
	if !d.Available() {
		return ErrUnavailable
	}
	select {
	case <-d.closed:
		return errors.New("deepgram: engine closed")
	default:
	}
	d.mu.Lock()
	busy := d.cur != nil
	d.mu.Unlock()
	if busy {
		return errors.New("deepgram: session already running")
	}

	endpoint, err := d.endpoint()
	if err != nil {
		return fmt.Errorf("deepgram: %w", err)
	}
	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.cfg.APIKey)

	conn, resp, err := d.dialer.DialContext(ctx, endpoint, headers)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("deepgram dial %s: %w", resp.Status, err)
		}
		return fmt.Errorf("deepgram dial: %w", err)
	}

	d.pump.Do(func() {
		d.chunks = make(chan []byte, 16)
		d.pumpDone = make(chan struct{})
		go d.readSource()
	})

	sessCtx, cancel := context.WithCancel(context.Background())
	st := &stream{conn: conn, cancel: cancel}
	d.mu.Lock()
	d.cur = st
	d.mu.Unlock()

	go d.send(sessCtx, st)
	go d.recv(st, h)
	d.log.Debug("stream opened")
	return nil
}

// readSource pumps src into chunks of 100 ms of audio.
func (d *Deepgram) readSource() {
	defer close(d.pumpDone)
	defer close(d.chunks)
	size := d.cfg.SampleRate * d.cfg.Channels * 2 / 10
	for {
		buf := make([]byte, size)
		n, err := io.ReadFull(d.src, buf)
		if n > 0 {
			select {
			case d.chunks <- buf[:n]:
			case <-d.closed:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				d.log.WithError(err).Warn("audio source failed")
			}
			return
		}
	}
}

func (d *Deepgram) send(ctx context.Context, st *stream) {
	keepAlive := time.NewTicker(keepAliveEvery)
	defer keepAlive.Stop()
	chunks := d.chunks
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-chunks:
			if !ok {
				// source drained; keep the socket open until stopped
				chunks = nil
				continue
			}
			if err := st.write(websocket.BinaryMessage, chunk); err != nil {
				return
			}
		case <-keepAlive.C:
			if chunks == nil {
				if err := st.write(websocket.TextMessage, []byte(`{"type":"KeepAlive"}`)); err != nil {
					return
				}
			}
		}
	}
}

func (d *Deepgram) recv(st *stream, h Handler) {
	for {
		_, data, err := st.conn.ReadMessage()
		if err != nil {
			st.cancel()
			st.conn.Close()
			d.mu.Lock()
			if d.cur == st {
				d.cur = nil
			}
			d.mu.Unlock()

			if !st.stopping.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				d.log.WithError(err).Warn("stream failed")
				h.OnError(err)
			}
			d.log.Debug("stream closed")
			h.OnEnd()
			return
		}

		var resp deepgramResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			d.log.WithError(err).Debug("skipping unparsable message")
			continue
		}
		if resp.Type != "Results" || len(resp.Channel.Alternatives) == 0 {
			continue
		}
		text := strings.TrimSpace(resp.Channel.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		h.OnResult(Event{Segments: []Segment{{Text: text, Final: resp.IsFinal}}})
	}
}

// Stop asks the service to close the stream and drops the connection.
func (d *Deepgram) Stop() error {
	d.mu.Lock()
	st := d.cur
	d.cur = nil
	d.mu.Unlock()
	if st == nil {
		return nil
	}
	st.stopping.Store(true)
	st.cancel()
	err := st.write(websocket.TextMessage, []byte(`{"type":"CloseStream"}`))
	st.conn.Close()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		d.log.WithError(err).Debug("close stream message not sent")
	}
	return nil
}

// Close stops any running stream and the source reader. A read already
// blocked on src finishes first; closing src unblocks it.
func (d *Deepgram) Close() error {
	err := d.Stop()
	d.closing.Do(func() { close(d.closed) })
	return err
}
