package blobstore_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"backuppull.io/blobstore"
	"backuppull.io/blobstore/blobmock"
)

func drain(q *blobstore.ChunkQueue) ([]byte, int) {
	var out []byte
	var chunks int
	for {
		chunk := q.BlockingRead()
		if len(chunk) == 0 {
			return out, chunks
		}
		out = append(out, chunk...)
		chunks++
	}
}

func TestChunkSourceReassemblesContent(t *testing.T) {
	store := &blobmock.InMemory{ChunkSize: 7}
	content := bytes.Repeat([]byte("0123456789"), 50)
	h := store.Put(content)

	queue := blobstore.NewChunkQueue()
	src := blobstore.StartChunkSource(context.Background(), store, h, queue)

	got, chunks := drain(queue)
	<-src.Done.Chan

	if !bytes.Equal(got, content) {
		t.Fatalf("reassembled content mismatch: got %d bytes, want %d", len(got), len(content))
	}
	if chunks < 2 {
		t.Errorf("expected multiple chunks with ChunkSize=7, got %d", chunks)
	}
	if src.Status().State() != blobstore.Done {
		t.Errorf("expected Done, got %v", src.Status().State())
	}
	if err := src.Status().Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestChunkSourcePropagatesError(t *testing.T) {
	store := &blobmock.InMemory{ChunkSize: 100}
	content := bytes.Repeat([]byte("x"), 500)
	h := store.Put(content)
	boom := errors.New("boom")
	store.FailAfter(h, 200, boom)

	queue := blobstore.NewChunkQueue()
	src := blobstore.StartChunkSource(context.Background(), store, h, queue)

	got, _ := drain(queue)
	<-src.Done.Chan

	if len(got) != 200 {
		t.Fatalf("expected 200 bytes before failure, got %d", len(got))
	}
	if err := src.Status().Err(); err != boom {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestChunkSourceDoneIdempotent(t *testing.T) {
	store := &blobmock.InMemory{}
	h := store.Put([]byte("hi"))
	queue := blobstore.NewChunkQueue()
	src := blobstore.StartChunkSource(context.Background(), store, h, queue)
	drain(queue)
	<-src.Done.Chan
	if !src.Done.IsClosed() {
		t.Fatal("expected Done to be closed")
	}
	src.Done.Close() // must not panic
}
