package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// wavFormat holds WAV file format information
type wavFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// parseWAV parses a RIFF/WAVE file and returns its format and raw PCM data.
func parseWAV(data []byte) (*wavFormat, []byte, error) {
	reader := bytes.NewReader(data)

	header := make([]byte, 4)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, nil, err
	}
	if string(header) != "RIFF" {
		return nil, nil, errors.New("not a RIFF file")
	}
	if _, err := reader.Seek(4, io.SeekCurrent); err != nil { // file size
		return nil, nil, err
	}
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, nil, err
	}
	if string(header) != "WAVE" {
		return nil, nil, errors.New("not a WAVE file")
	}

	format := &wavFormat{}
	var dataStart int64
	var dataSize uint32

	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, nil, err
		}
		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var audioFormat, numChannels uint16
			var sampleRate uint32
			var bitsPerSample uint16
			if err := binary.Read(reader, binary.LittleEndian, &audioFormat); err != nil {
				return nil, nil, err
			}
			if err := binary.Read(reader, binary.LittleEndian, &numChannels); err != nil {
				return nil, nil, err
			}
			if err := binary.Read(reader, binary.LittleEndian, &sampleRate); err != nil {
				return nil, nil, err
			}
			if _, err := reader.Seek(6, io.SeekCurrent); err != nil { // byte rate, block align
				return nil, nil, err
			}
			if err := binary.Read(reader, binary.LittleEndian, &bitsPerSample); err != nil {
				return nil, nil, err
			}
			format.Channels = int(numChannels)
			format.SampleRate = int(sampleRate)
			format.BitDepth = int(bitsPerSample)
			if extra := int64(chunkSize) - 16; extra > 0 {
				if _, err := reader.Seek(extra, io.SeekCurrent); err != nil {
					return nil, nil, err
				}
			}
		case "data":
			pos, err := reader.Seek(0, io.SeekCurrent)
			if err != nil {
				return nil, nil, err
			}
			dataStart = pos
			dataSize = chunkSize
		default:
			if _, err := reader.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, nil, err
			}
		}
		if dataSize != 0 {
			break
		}
	}

	if format.SampleRate == 0 || dataSize == 0 {
		return nil, nil, errors.New("missing fmt or data chunk")
	}

	pcm := make([]byte, dataSize)
	if _, err := reader.Seek(dataStart, io.SeekStart); err != nil {
		return nil, nil, err
	}
	if _, err := io.ReadFull(reader, pcm); err != nil {
		return nil, nil, err
	}
	return format, pcm, nil
}
