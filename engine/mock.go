package engine

import (
	"github.com/stretchr/testify/mock"
)

// MockGateway is a testify mock of Gateway for use in server and API tests
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Put(key string, data []byte) (*Result, error) {
	args := m.Called(key, data)
	return resultArg(args, 0), args.Error(1)
}

func (m *MockGateway) Get(key string) (*Result, []byte, error) {
	args := m.Called(key)
	var blob []byte
	if args.Get(1) != nil {
		blob = args.Get(1).([]byte)
	}
	return resultArg(args, 0), blob, args.Error(2)
}

func (m *MockGateway) Exists(key string) (*Result, error) {
	args := m.Called(key)
	return resultArg(args, 0), args.Error(1)
}

func (m *MockGateway) Stat(key string) (*Result, error) {
	args := m.Called(key)
	return resultArg(args, 0), args.Error(1)
}

func (m *MockGateway) Remove(key string) (*Result, error) {
	args := m.Called(key)
	return resultArg(args, 0), args.Error(1)
}

func (m *MockGateway) List() (*Result, error) {
	args := m.Called()
	return resultArg(args, 0), args.Error(1)
}

func resultArg(args mock.Arguments, index int) *Result {
	if args.Get(index) == nil {
		return nil
	}
	return args.Get(index).(*Result)
}
