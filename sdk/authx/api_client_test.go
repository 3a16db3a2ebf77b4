package authx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testAPIAddress = "localhost:8080"

func TestNewAPIClient(t *testing.T) {
	client := NewAPIClient(testAPIAddress, nil)
	require.IsType(t, &apiClient{}, client)
	require.NotNil(t, client.(*apiClient).sessionsClient)
	require.NotNil(t, client.Sessions())
	require.NotNil(t, client.(*apiClient).verificationsClient)
	require.NotNil(t, client.Verifications())
	require.NotNil(t, client.(*apiClient).passwordsClient)
	require.NotNil(t, client.Passwords())
	// All specialized clients share one cookie jar
	jar := client.Sessions().(*sessionsClient).HTTPClient.Jar
	require.NotNil(t, jar)
	require.Equal(
		t,
		jar,
		client.Verifications().(*verificationsClient).HTTPClient.Jar,
	)
	require.Equal(t, jar, client.Passwords().(*passwordsClient).HTTPClient.Jar)
}
