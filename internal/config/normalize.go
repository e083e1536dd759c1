package config

import (
	"path/filepath"
	"strings"
)

// normalize expands paths and fills in derived defaults that depend on other
// fields.
func (c *Config) normalize() error {
	dataDir, err := ExpandPath(c.Paths.DataDir)
	if err != nil {
		return err
	}
	c.Paths.DataDir = dataDir

	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = filepath.Join(dataDir, "downloads")
	} else {
		expanded, err := ExpandPath(c.Paths.DownloadDir)
		if err != nil {
			return err
		}
		c.Paths.DownloadDir = expanded
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(dataDir, "logs")
	} else {
		expanded, err := ExpandPath(c.Paths.LogDir)
		if err != nil {
			return err
		}
		c.Paths.LogDir = expanded
	}

	if strings.TrimSpace(c.State.File) == "" {
		c.State.File = filepath.Join(dataDir, "last_video.json")
	} else {
		expanded, err := ExpandPath(c.State.File)
		if err != nil {
			return err
		}
		c.State.File = expanded
	}

	c.YouTube.ChannelHandle = strings.TrimSpace(c.YouTube.ChannelHandle)
	c.Transcript.Language = strings.TrimSpace(c.Transcript.Language)
	c.Email.Sender = strings.TrimSpace(c.Email.Sender)
	c.Email.Recipient = strings.TrimSpace(c.Email.Recipient)

	return nil
}
