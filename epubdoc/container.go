package epubdoc

import (
	"encoding/xml"
	"errors"
)

// Container-related errors.
var (
	ErrNoContainer      = errors.New("epubdoc: missing META-INF/container.xml")
	ErrInvalidContainer = errors.New("epubdoc: invalid container.xml")
	ErrNoRootfile       = errors.New("epubdoc: no rootfile found in container.xml")
)

type containerXML struct {
	XMLName   xml.Name  `xml:"container"`
	Version   string    `xml:"version,attr"`
	Rootfiles rootfiles `xml:"rootfiles"`
}

type rootfiles struct {
	Rootfile []rootfile `xml:"rootfile"`
}

type rootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// parseContainer parses META-INF/container.xml and returns the path of the
// package document.
func parseContainer(data []byte) (string, error) {
	var container containerXML
	if err := xml.Unmarshal(data, &container); err != nil {
		return "", ErrInvalidContainer
	}

	for _, rf := range container.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			if rf.FullPath != "" {
				return rf.FullPath, nil
			}
		}
	}

	if len(container.Rootfiles.Rootfile) > 0 {
		return container.Rootfiles.Rootfile[0].FullPath, nil
	}
	return "", ErrNoRootfile
}
