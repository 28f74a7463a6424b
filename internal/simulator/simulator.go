package simulator

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/linkframe/internal/datalink"
	"github.com/muurk/linkframe/internal/logging"
	"github.com/muurk/linkframe/internal/medium"
	"github.com/muurk/linkframe/internal/protocol"
)

// Setup selects the medium and framing for one run.
type Setup struct {
	Medium   medium.Options
	Protocol protocol.Options
}

// Report is the outcome of one run.
type Report struct {
	Sent      []byte
	Received  []byte
	Succeeded bool

	SenderStats   datalink.Stats
	ReceiverStats datalink.Stats
	MediumStats   medium.Stats
	Elapsed       time.Duration
}

// Run sends data from one host to another over a fresh medium and reports
// whether it arrived intact. The sender runs in its own goroutine and closes
// the medium when it is done; the receiver collects until then.
func Run(ctx context.Context, setup Setup, data []byte) (*Report, error) {
	codec, err := protocol.NewCodec(setup.Protocol)
	if err != nil {
		return nil, err
	}
	link, err := medium.New(setup.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create medium: %w", err)
	}

	logging.Info("Simulation started",
		zap.String("medium", string(setup.Medium.Type)),
		zap.String("detector", codec.Detector().Name()),
		zap.Int("bytes", len(data)),
	)

	report, err := exchange(ctx, codec, link, data)
	if err != nil {
		return nil, err
	}

	logging.Info("Simulation finished",
		zap.Bool("succeeded", report.Succeeded),
		zap.Uint64("frames_sent", report.SenderStats.FramesSent),
		zap.Uint64("frames_delivered", report.ReceiverStats.FramesDelivered),
		zap.Uint64("frames_corrupt", report.ReceiverStats.FramesCorrupt),
		zap.Uint64("bits_flipped", report.MediumStats.BitsFlipped),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// countingMedium is a medium that counts what crossed it.
type countingMedium interface {
	medium.Medium
	Stats() medium.Stats
}

func exchange(ctx context.Context, codec *protocol.Codec, link countingMedium, data []byte) (*Report, error) {
	sender := datalink.NewHost("sender", codec, link)
	receiver := datalink.NewHost("receiver", codec, link)
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sendErr := make(chan error, 1)
	go func() {
		defer link.Close()
		sendErr <- sender.Send(ctx, data)
	}()

	// A receive failure comes first: cancelling unblocks a sender stuck on a
	// full medium, and the sender's resulting context error is not the cause.
	received, recvErr := receiver.Retrieve(ctx)
	if recvErr != nil {
		cancel()
		<-sendErr
		return nil, fmt.Errorf("retrieve failed: %w", recvErr)
	}
	if err := <-sendErr; err != nil {
		return nil, fmt.Errorf("send failed: %w", err)
	}

	return &Report{
		Sent:          data,
		Received:      received,
		Succeeded:     bytes.Equal(data, received),
		SenderStats:   sender.Layer().Stats(),
		ReceiverStats: receiver.Layer().Stats(),
		MediumStats:   link.Stats(),
		Elapsed:       time.Since(start),
	}, nil
}

// FramesLost is the number of frames the sender sent that the receiver
// neither delivered nor reported as corrupt: frames that noise destroyed
// beyond recognition.
func (r *Report) FramesLost() uint64 {
	seen := r.ReceiverStats.FramesDelivered + r.ReceiverStats.FramesCorrupt
	if seen >= r.SenderStats.FramesSent {
		return 0
	}
	return r.SenderStats.FramesSent - seen
}
