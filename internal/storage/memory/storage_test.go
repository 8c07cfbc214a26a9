package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rpsgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSetAndGet() {
	s.Require().NoError(s.storage.Set(s.ctx, "rps:ns:player:ALICE", []byte(`{"name":"ALICE"}`)))

	data, err := s.storage.Get(s.ctx, "rps:ns:player:ALICE")
	s.Require().NoError(err)
	s.JSONEq(`{"name":"ALICE"}`, string(data))
}

func (s *StorageSuite) TestGetNotFound() {
	_, err := s.storage.Get(s.ctx, "missing")
	s.ErrorIs(err, model.ErrKeyNotFound)
	s.ErrorIs(err, model.ErrPersistenceMiss)
}

func (s *StorageSuite) TestStoredValueIsCopied() {
	value := []byte("abc")
	s.Require().NoError(s.storage.Set(s.ctx, "k", value))
	value[0] = 'z'

	data, err := s.storage.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal("abc", string(data))

	data[1] = 'z'
	again, _ := s.storage.Get(s.ctx, "k")
	s.Equal("abc", string(again))
}

func (s *StorageSuite) TestOverwrite() {
	_ = s.storage.Set(s.ctx, "k", []byte("1"))
	_ = s.storage.Set(s.ctx, "k", []byte("2"))

	data, err := s.storage.Get(s.ctx, "k")
	s.Require().NoError(err)
	s.Equal("2", string(data))
}

func (s *StorageSuite) TestDelete() {
	_ = s.storage.Set(s.ctx, "k", []byte("1"))
	s.Require().NoError(s.storage.Delete(s.ctx, "k"))

	_, err := s.storage.Get(s.ctx, "k")
	s.ErrorIs(err, model.ErrKeyNotFound)

	// Deleting an absent key is not an error
	s.NoError(s.storage.Delete(s.ctx, "k"))
}

func (s *StorageSuite) TestClearPrefix() {
	_ = s.storage.Set(s.ctx, "rps:a:player:X", []byte("1"))
	_ = s.storage.Set(s.ctx, "rps:a:setup", []byte("2"))
	_ = s.storage.Set(s.ctx, "rps:b:setup", []byte("3"))

	s.Require().NoError(s.storage.Clear(s.ctx, "rps:a:"))

	s.Equal(1, s.storage.Len())
	_, err := s.storage.Get(s.ctx, "rps:b:setup")
	s.NoError(err)
}
