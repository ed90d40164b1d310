package sernet_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/luxfi/distprove/pkg/party"
	"github.com/luxfi/distprove/pkg/sernet"
	"github.com/luxfi/distprove/pkg/testnet"
	"github.com/luxfi/distprove/pkg/transport"
)

func TestClientSendOrKingReceiveFullRound(t *testing.T) {
	const n = 4
	net := testnet.New(n)

	var wg sync.WaitGroup
	results := make([]sernet.ReceivedShares[int], n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h := net.Handle(id)
			value := int(id) * 10
			rs, err := sernet.ClientSendOrKingReceive(context.Background(), h, &value, transport.StreamZero, n)
			require.NoError(t, err)
			results[id] = rs
		}(party.ID(i))
	}
	wg.Wait()

	king := results[0]
	require.True(t, king.Full(n))
	for i, v := range king.Shares {
		assert.Equal(t, i*10, v)
	}
}

func TestClientReceiveOrKingSendRoundTrip(t *testing.T) {
	const n = 3
	net := testnet.New(n)

	var wg sync.WaitGroup
	results := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id party.ID) {
			defer wg.Done()
			h := net.Handle(id)
			var answers []int
			if id.IsKing() {
				answers = []int{100, 200, 300}
			}
			v, err := sernet.ClientReceiveOrKingSend(h, answers, transport.StreamOne)
			require.NoError(t, err)
			results[id] = v
		}(party.ID(i))
	}
	wg.Wait()

	assert.Equal(t, []int{100, 200, 300}, results)
}
