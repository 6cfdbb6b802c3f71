package server

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"fmt"
	"math/big"
	"net"
	"time"

	"cosmossdk.io/log"
)

// p2pALPN is the protocol identifier peers negotiate over TLS before
// any lobby traffic flows; there is no registered iroh-style overlay
// library in this module's dependency surface, so the peer-to-peer
// transport is built directly on crypto/tls's native ALPN negotiation
// instead.
const p2pALPN = "mcg/iroh/1"

// P2PTransport accepts direct peer connections authenticated by a
// self-signed certificate derived from a persisted Ed25519 key, and
// speaks the same newline-delimited JSON ClientMsg/ServerMsg protocol
// as the other transports over the resulting TLS stream.
type P2PTransport struct {
	lobby *Lobby
	bc    *Broadcaster
	log   log.Logger
	tlsCf *tls.Config
}

// NewP2PTransport builds a P2PTransport around a static Ed25519
// identity key (seed must be ed25519.SeedSize long; generate and
// persist one with GenerateP2PKey on first run).
func NewP2PTransport(lobby *Lobby, bc *Broadcaster, logger log.Logger, seed []byte) (*P2PTransport, error) {
	cert, err := selfSignedCert(seed)
	if err != nil {
		return nil, fmt.Errorf("server: building p2p identity: %w", err)
	}
	return &P2PTransport{
		lobby: lobby,
		bc:    bc,
		log:   logger,
		tlsCf: &tls.Config{
			Certificates: []tls.Certificate{cert},
			NextProtos:   []string{p2pALPN},
			MinVersion:   tls.VersionTLS13,
		},
	}, nil
}

// GenerateP2PKey returns a fresh Ed25519 seed suitable for persisting
// as a peer's static identity.
func GenerateP2PKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return priv.Seed(), nil
}

func selfSignedCert(seed []byte) (tls.Certificate, error) {
	if len(seed) != ed25519.SeedSize {
		return tls.Certificate{}, fmt.Errorf("server: p2p seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return tls.Certificate{}, err
	}
	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "mcg-peer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(10 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, priv.Public(), priv)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: priv}, nil
}

// ListenAndServe accepts P2P connections on addr until ctx is canceled.
func (t *P2PTransport) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := tls.Listen("tcp", addr, t.tlsCf)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go t.handleConn(conn)
	}
}

func (t *P2PTransport) handleConn(conn net.Conn) {
	defer conn.Close()

	dec := json.NewDecoder(bufio.NewReader(conn))
	var join ClientMsg
	if err := dec.Decode(&join); err != nil || join.Type != ClientJoin || join.Name == "" {
		_ = json.NewEncoder(conn).Encode(ServerMsg{Type: ServerError, Error: "first message must be a join with a name"})
		return
	}
	seat, err := t.lobby.Join(join.Name)
	if err != nil {
		_ = json.NewEncoder(conn).Encode(ServerMsg{Type: ServerError, Error: err.Error()})
		return
	}
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ServerMsg{Type: ServerWelcome, Seat: seat}); err != nil {
		return
	}

	sub := t.bc.Subscribe()
	defer t.bc.Unsubscribe(sub)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub {
			if err := enc.Encode(msg); err != nil {
				return
			}
		}
	}()

	for {
		var msg ClientMsg
		if err := dec.Decode(&msg); err != nil {
			break
		}
		reply, err := Dispatch(t.lobby, t.bc, seat, msg)
		if err != nil {
			_ = enc.Encode(ServerMsg{Type: ServerError, Error: err.Error()})
			continue
		}
		if reply != nil {
			_ = enc.Encode(*reply)
		}
	}
	<-done
}
