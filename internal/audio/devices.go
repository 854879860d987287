package audio

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
)

// inputDevice resolves the capture device by name or ID, falling back
// to the system default when none is specified.
func inputDevice(nameOrID string) (d *portaudio.DeviceInfo, err error) {
	if nameOrID == "" {
		d, err = portaudio.DefaultInputDevice()
		if err != nil {
			return nil, err
		}
	} else {
		d, err = findDevice(nameOrID)
		if err != nil {
			return nil, fmt.Errorf("get audio input device: %w", err)
		}

		if d.MaxInputChannels < 1 {
			printAvailableDevices()
			return nil, fmt.Errorf("audio device %q is not an input device or in use by another program", d.Name)
		}
	}

	slog.Info(fmt.Sprintf("using audio input device %q, sample rate: %d", d.Name, int(d.DefaultSampleRate)))

	return d, nil
}

// outputDevice resolves the playback device by name or ID, falling back
// to the system default when none is specified.
func outputDevice(nameOrID string) (d *portaudio.DeviceInfo, err error) {
	if nameOrID == "" {
		d, err = portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, err
		}
	} else {
		d, err = findDevice(nameOrID)
		if err != nil {
			return nil, fmt.Errorf("get audio output device: %w", err)
		}

		if d.MaxOutputChannels < 1 {
			printAvailableDevices()
			return nil, fmt.Errorf("audio device %q is not an output device or in use by another program", d.Name)
		}
	}

	slog.Info(fmt.Sprintf("using audio output device %q, sample rate: %d", d.Name, int(d.DefaultSampleRate)))

	return d, nil
}

func findDevice(nameOrID string) (*portaudio.DeviceInfo, error) {
	if nameOrID == "" {
		return nil, fmt.Errorf("no audio device ID or name specified")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list available audio devices: %w", err)
	}

	id, err := strconv.ParseInt(nameOrID, 10, 32)
	if err != nil {
		// Not numeric, match by substring of the device name.
		for _, d := range devices {
			if strings.Contains(d.Name, nameOrID) {
				return d, nil
			}
		}

		printAvailableDevices()

		return nil, fmt.Errorf("audio device %q not found", nameOrID)
	}

	if id < 0 || id >= int64(len(devices)) {
		printAvailableDevices()

		return nil, fmt.Errorf("audio device %d not found - please specify the ID of an existing device", id)
	}

	return devices[id], nil
}

func printAvailableDevices() {
	devices, err := portaudio.Devices()
	if err != nil {
		slog.Warn(fmt.Sprintf("get available audio devices: %s", err))
	}
	fmt.Fprintf(os.Stderr, "\nAvailable audio devices:\n\n")
	format := "%2s  %-55s  %2s  %3s  %s\n"
	fmt.Fprintf(os.Stderr, format, "ID", "NAME", "IN", "OUT", "SAMPLERATE")
	for i, d := range devices {
		fmt.Fprintf(os.Stderr, "%2d  %-55s  %2d  %3d  %10d\n", i, d.Name, d.MaxInputChannels, d.MaxOutputChannels, int(d.DefaultSampleRate))
	}
	fmt.Fprintln(os.Stderr)
}
