package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/fsnotify/fsnotify"
)

// FileProvider serves the credential triple from a YAML file and keeps
// serving fresh values when a rotation agent rewrites that file. Reads and
// reloads may happen from different goroutines.
type FileProvider struct {
	filePath string

	current AWSCredentials
	cMux    *sync.RWMutex

	watcher *fsnotify.Watcher
}

// NewFileProvider loads the credentials file and starts watching it for
// rotations. Call Close when done to release the watcher.
func NewFileProvider(filePath string) (*FileProvider, error) {
	cred, err := LoadFromFile(filePath)
	if err != nil {
		return nil, err
	}
	fp := &FileProvider{
		filePath: filePath,
		current:  *cred,
		cMux:     &sync.RWMutex{},
	}
	fp.watcher = createFileWatcherAndStartWatching(fp.fileChanged, fp.fileDeleted)
	if fp.watcher != nil {
		startWatching(fp.watcher, filePath)
	}
	return fp, nil
}

// Current returns a copy of the most recently loaded triple.
func (fp *FileProvider) Current() AWSCredentials {
	fp.cMux.RLock()
	defer fp.cMux.RUnlock()
	return fp.current
}

//To satisfy the aws.CredentialsProvider interface
func (fp *FileProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	current := fp.Current()
	return current.Retrieve(ctx)
}

// DeriveSecret hands out the secret key for a known access key id. It backs
// signature verification so it only answers for the triple currently served.
func (fp *FileProvider) DeriveSecret(accessKeyId string) (string, error) {
	current := fp.Current()
	if accessKeyId != current.AccessKey {
		return "", fmt.Errorf("unknown access key id %s", accessKeyId)
	}
	return current.SecretKey, nil
}

func (fp *FileProvider) Close() error {
	if fp.watcher == nil {
		return nil
	}
	return fp.watcher.Close()
}

func (fp *FileProvider) fileChanged(fileName string) {
	cred, err := LoadFromFile(fileName)
	if err != nil {
		//Rotation agents might write non-atomically, a half written file is
		//expected to be followed shortly by a loadable one so keep the old
		//triple and just report.
		slog.Warn("Could not reload credentials file, keeping previous credentials", "filename", fileName, "error", err)
		return
	}
	fp.cMux.Lock()
	defer fp.cMux.Unlock()
	fp.current = *cred
	slog.Info("Reloaded rotated credentials", "filename", fileName)
}

func (fp *FileProvider) fileDeleted(fileName string) {
	slog.Warn("Credentials file was deleted, keeping previous credentials", "filename", fileName)
}

//A callback function that takes a filepath to action a change to a file.
type fileCallback func(string)

//Start a watcher to keep an eye on files
func createFileWatcherAndStartWatching(fileChanged, fileDeleted fileCallback) *fsnotify.Watcher {
	//See https://github.com/fsnotify/fsnotify
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("Could not create new watcher", "error", err)
		return nil
	}

	// Start listening for events.
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				slog.Debug("Credentials watcher event", "event", event)
				if event.Has(fsnotify.Write) {
					fileChanged(event.Name)
				}
				if event.Has(fsnotify.Remove) {
					fileDeleted(event.Name)
					// See https://ahmet.im/blog/kubernetes-inotify/
					restartWatching(watcher, event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("error with file watcher", "error", err)
			}
		}
	}()
	return watcher
}

func startWatching(watcher *fsnotify.Watcher, fileName string) {
	err := watcher.Add(fileName)
	if err != nil {
		slog.Error("Could not add watcher", "filename", fileName, "error", err)
	} else {
		slog.Debug("Started watching file", "filename", fileName)
	}
}

func restartWatching(watcher *fsnotify.Watcher, fileName string) {
	err := watcher.Remove(fileName)
	if err != nil {
		slog.Debug("Wanted to stop watching file but watcher was gone", "filename", fileName)
	}
	startWatching(watcher, fileName)
}
