package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInfo_format(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	tcs := map[string]struct {
		info Info
		want string
	}{
		"release": {
			info: Info{
				Version:   "v1.2.3",
				Revision:  "abc1234",
				Branch:    "main",
				BuildUser: "ci",
				BuildDate: "2025-06-07T12:00:00Z",
				GoVersion: "go1.25.0",
				Platform:  "linux/amd64",
			},
			want: "storysort v1.2.3 (abc1234)\n" +
				"  branch:   main\n" +
				"  built:    3 days ago by ci\n" +
				"  go:       go1.25.0\n" +
				"  platform: linux/amd64\n",
		},
		"development": {
			info: Info{
				Version:   "abc1234-dirty",
				Revision:  "abc1234-dirty",
				BuildDate: "yesterday",
				GoVersion: "go1.25.0",
				Platform:  "darwin/arm64",
			},
			want: "storysort abc1234-dirty (abc1234-dirty)\n" +
				"  built:    yesterday\n" +
				"  go:       go1.25.0\n" +
				"  platform: darwin/arm64\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.format(now))
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, GoOS+"/"+GoArch, info.Platform)
}
