// pkg/demo/generate.go
package demo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Generated ledgers carry non-canonical headers and go through the same
// resolution path as a real upload: Source/Target/Value/DateTime resolve
// through the alias tier, while txn_ref has no alias and its UUID values
// defeat content inference, leaving transaction IDs synthesized.
var demoHeader = []string{"txn_ref", "Source", "Target", "Value", "DateTime"}

const (
	demoAccounts    = 200
	ringCount       = 3
	ringFanIn       = 18
	ringFanOut      = 12
	timestampLayout = "2006-01-02 15:04:05"
	ledgerWindowHrs = 72
	minLegitAmount  = 5.0
	maxLegitAmount  = 900.0
	muleDepositLow  = 100.0
	muleDepositHigh = 450.0
)

// Generator produces synthetic transaction ledgers with injected muling
// patterns for demos. Deterministic for a fixed seed.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded for reproducible output
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// WriteLedger writes a CSV ledger of roughly the requested size: organic
// peer-to-peer transfers mixed with a few two-mule rings. In each ring an
// aggregator collects many small deposits, passes the pot to a distributor,
// and the distributor sprays it back out in smaller transfers.
func (g *Generator) WriteLedger(w io.Writer, transactions int) error {
	if transactions <= 0 {
		return errors.New("transaction count must be positive")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(demoHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	base := time.Now().Add(-ledgerWindowHrs * time.Hour)

	accounts := make([]string, demoAccounts)
	for i := range accounts {
		accounts[i] = fmt.Sprintf("ACC_%04d", i)
	}

	// Organic background traffic
	organic := transactions - ringCount*(ringFanIn+2+ringFanOut)
	for i := 0; i < organic; i++ {
		from := accounts[g.rng.Intn(len(accounts))]
		to := accounts[g.rng.Intn(len(accounts))]
		for to == from {
			to = accounts[g.rng.Intn(len(accounts))]
		}

		amount := minLegitAmount + g.rng.Float64()*(maxLegitAmount-minLegitAmount)
		ts := base.Add(time.Duration(g.rng.Intn(ledgerWindowHrs*3600)) * time.Second)

		if err := g.writeRow(writer, from, to, amount, ts); err != nil {
			return err
		}
	}

	// Injected mule rings: many small deposits funnel into an aggregator in
	// a tight window, the pot moves to a distributor in two transfers, and
	// the distributor fans it back out
	for ring := 0; ring < ringCount; ring++ {
		aggregator := fmt.Sprintf("MULE_%02d", ring*2)
		distributor := fmt.Sprintf("MULE_%02d", ring*2+1)
		window := base.Add(time.Duration(g.rng.Intn(ledgerWindowHrs-2)) * time.Hour)

		var funneled float64
		for i := 0; i < ringFanIn; i++ {
			depositor := accounts[g.rng.Intn(len(accounts))]
			amount := muleDepositLow + g.rng.Float64()*(muleDepositHigh-muleDepositLow)
			funneled += amount
			ts := window.Add(time.Duration(g.rng.Intn(30*60)) * time.Second)

			if err := g.writeRow(writer, depositor, aggregator, amount, ts); err != nil {
				return err
			}
		}

		handoffAt := window.Add(35 * time.Minute)
		for i := 0; i < 2; i++ {
			if err := g.writeRow(writer, aggregator, distributor, funneled/2, handoffAt.Add(time.Duration(i)*time.Minute)); err != nil {
				return err
			}
		}

		sprayAt := window.Add(45 * time.Minute)
		for i := 0; i < ringFanOut; i++ {
			outlet := accounts[g.rng.Intn(len(accounts))]
			ts := sprayAt.Add(time.Duration(g.rng.Intn(20*60)) * time.Second)

			if err := g.writeRow(writer, distributor, outlet, funneled/ringFanOut, ts); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeRow emits one CSV record with a UUID transaction reference
func (g *Generator) writeRow(writer *csv.Writer, from, to string, amount float64, ts time.Time) error {
	record := []string{
		uuid.New().String(),
		from,
		to,
		strconv.FormatFloat(amount, 'f', 2, 64),
		ts.Format(timestampLayout),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write ledger row: %w", err)
	}
	return nil
}
