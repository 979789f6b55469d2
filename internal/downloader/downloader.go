package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kkdai/youtube/v2"
)

type downloadResult struct {
	bytes       int64
	outputPath  string
	retried     bool
	hadProgress bool
}

// Process resolves a URL with the extraction library and downloads it
// according to the request. A playlist URL downloads up to
// req.PlaylistLimit entries; anything else is treated as a single item.
// Errors are never fatal to the caller's session.
func Process(ctx context.Context, rawURL string, req Request) error {
	printer := newPrinter(req)

	target, err := ValidateURL(rawURL)
	if err != nil {
		return err
	}
	if LooksLikePlaylist(target) {
		return processPlaylist(ctx, target, req, printer)
	}
	target = NormalizeWatchURL(target)

	youtube.DefaultClient = youtube.AndroidClient
	client := newClient(req)
	video, err := client.GetVideoContext(ctx, target)
	if err != nil {
		return wrapFetchError(err, "fetching metadata")
	}

	prefix := printer.Prefix(1, 1, video.Title)
	result, err := downloadItem(ctx, client, video, req, outputContext{}, printer, prefix)
	printer.ItemResult(prefix, result, err)
	if err != nil {
		return markReported(err)
	}
	printer.Summary(1, 1, 0, 0, result.bytes)
	return nil
}

func downloadItem(ctx context.Context, client *youtube.Client, video *youtube.Video, req Request, ctxInfo outputContext, printer *Printer, prefix string) (downloadResult, error) {
	if req.AudioOnly {
		return downloadAudioItem(ctx, client, video, req, ctxInfo, printer, prefix)
	}
	return downloadVideoItem(ctx, client, video, req, ctxInfo, printer, prefix)
}

// downloadAudioItem fetches the best audio-only stream and hands it to the
// media backend for conversion into the target container. Without ffmpeg
// the stream is kept in its native container instead.
func downloadAudioItem(ctx context.Context, client *youtube.Client, video *youtube.Video, req Request, ctxInfo outputContext, printer *Printer, prefix string) (downloadResult, error) {
	result := downloadResult{}

	format, err := selectAudioFormat(video)
	if err != nil {
		return result, err
	}

	convert := ffmpegAvailable()
	ext := req.Container
	if !convert {
		ext = mimeToExt(format.MimeType)
	}

	outputPath := resolveOutputPath(req, video, ext, ctxInfo)
	outputPath, err = nextAvailablePath(outputPath)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return result, wrapCategory(CategoryFilesystem, fmt.Errorf("creating output directory: %w", err))
	}
	result.outputPath = outputPath

	downloadPath := outputPath
	if convert {
		downloadPath = outputPath + ".src." + mimeToExt(format.MimeType)
		defer os.Remove(downloadPath)
	}

	written, retried, err := downloadStream(ctx, client, video, format, downloadPath, req, printer, prefix)
	result.retried = retried
	result.hadProgress = !req.Quiet
	if err != nil {
		os.Remove(downloadPath)
		return result, err
	}

	if convert {
		if err := extractAudio(downloadPath, outputPath); err != nil {
			return result, wrapCategory(CategoryUnsupported, fmt.Errorf("audio conversion failed: %w", err))
		}
		if fi, statErr := os.Stat(outputPath); statErr == nil {
			written = fi.Size()
		}
	}

	embedAudioTags(metadataForDownload(video, ctxInfo), outputPath, printer)

	result.bytes = written
	return result, nil
}

// downloadVideoItem downloads the best capped video-only stream plus the
// best audio stream and muxes them. When split streams are unavailable, or
// ffmpeg is missing, a progressive stream capped the same way is used.
func downloadVideoItem(ctx context.Context, client *youtube.Client, video *youtube.Video, req Request, ctxInfo outputContext, printer *Printer, prefix string) (downloadResult, error) {
	result := downloadResult{}

	if ffmpegAvailable() {
		videoFormat, audioFormat, err := selectSplitFormats(video, req.Quality)
		if err == nil {
			return downloadAndMerge(ctx, client, video, videoFormat, audioFormat, req, ctxInfo, printer, prefix)
		}
	}

	format, err := selectProgressiveFormat(video, req.Quality)
	if err != nil {
		return result, err
	}

	outputPath := resolveOutputPath(req, video, mimeToExt(format.MimeType), ctxInfo)
	outputPath, err = nextAvailablePath(outputPath)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return result, wrapCategory(CategoryFilesystem, fmt.Errorf("creating output directory: %w", err))
	}
	result.outputPath = outputPath

	written, retried, err := downloadStream(ctx, client, video, format, outputPath, req, printer, prefix)
	result.retried = retried
	result.hadProgress = !req.Quiet
	if err != nil {
		os.Remove(outputPath)
		return result, err
	}

	result.bytes = written
	return result, nil
}

func downloadAndMerge(ctx context.Context, client *youtube.Client, video *youtube.Video, videoFormat, audioFormat *youtube.Format, req Request, ctxInfo outputContext, printer *Printer, prefix string) (downloadResult, error) {
	result := downloadResult{}

	outputPath := resolveOutputPath(req, video, req.Container, ctxInfo)
	outputPath, err := nextAvailablePath(outputPath)
	if err != nil {
		return result, err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return result, wrapCategory(CategoryFilesystem, fmt.Errorf("creating output directory: %w", err))
	}
	result.outputPath = outputPath

	videoTemp := outputPath + ".video." + mimeToExt(videoFormat.MimeType)
	audioTemp := outputPath + ".audio." + mimeToExt(audioFormat.MimeType)
	defer os.Remove(videoTemp)
	defer os.Remove(audioTemp)

	_, retried, err := downloadStream(ctx, client, video, videoFormat, videoTemp, req, printer, prefix)
	result.retried = retried
	result.hadProgress = !req.Quiet
	if err != nil {
		return result, err
	}
	_, audioRetried, err := downloadStream(ctx, client, video, audioFormat, audioTemp, req, printer, prefix)
	result.retried = result.retried || audioRetried
	if err != nil {
		return result, err
	}

	if err := mergeStreams(videoTemp, audioTemp, outputPath); err != nil {
		os.Remove(outputPath)
		return result, wrapCategory(CategoryUnsupported, fmt.Errorf("merging streams failed: %w", err))
	}

	if fi, err := os.Stat(outputPath); err == nil {
		result.bytes = fi.Size()
	}
	return result, nil
}

// downloadStream copies one stream to disk. A 403 on a chunked transfer is
// retried once as a single unchunked request; the platform intermittently
// rejects ranged requests on otherwise valid streams.
func downloadStream(ctx context.Context, client *youtube.Client, video *youtube.Video, format *youtube.Format, path string, req Request, printer *Printer, prefix string) (int64, bool, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, false, wrapCategory(CategoryFilesystem, fmt.Errorf("opening output file: %w", err))
	}
	defer file.Close()

	adjustChunkSize(client, format.ContentLength)
	stream, size, err := client.GetStreamContext(ctx, video, format)
	if err != nil {
		return 0, false, wrapFetchError(err, "starting stream")
	}
	if size <= 0 && format.ContentLength > 0 {
		size = format.ContentLength
	}
	defer func() {
		if stream != nil {
			stream.Close()
		}
	}()

	var writer io.Writer = file
	var progress *progressWriter
	if !req.Quiet {
		progress = newProgressWriter(size, printer, prefix)
		writer = io.MultiWriter(file, progress)
	}

	retried := false
	written, err := copyWithContext(ctx, writer, stream)
	if err != nil && isUnexpectedStatus(err, http.StatusForbidden) {
		if progress != nil {
			progress.NewLine()
		}
		printer.Log(LogWarn, "warning: 403 from chunked download, retrying with single request")

		if _, seekErr := file.Seek(0, 0); seekErr != nil {
			return written, false, wrapCategory(CategoryFilesystem, fmt.Errorf("retry failed: %w", seekErr))
		}
		if truncErr := file.Truncate(0); truncErr != nil {
			return written, false, wrapCategory(CategoryFilesystem, fmt.Errorf("retry failed: %w", truncErr))
		}

		// Zero ContentLength disables chunking in the extraction library.
		formatSingle := *format
		formatSingle.ContentLength = 0

		stream.Close()
		stream = nil
		stream, size, err = client.GetStreamContext(ctx, video, &formatSingle)
		if err != nil {
			return written, false, wrapCategory(CategoryNetwork, fmt.Errorf("retry failed: %w", err))
		}
		if size <= 0 && format.ContentLength > 0 {
			size = format.ContentLength
		}

		writer = file
		if progress != nil {
			progress.Reset(size)
			writer = io.MultiWriter(file, progress)
		}
		written, err = copyWithContext(ctx, writer, stream)
		retried = true
	}
	if err != nil {
		return written, retried, wrapCategory(CategoryNetwork, fmt.Errorf("download failed: %w", err))
	}

	if progress != nil {
		progress.Finish()
	}
	return written, retried, nil
}

func isUnexpectedStatus(err error, code int) bool {
	var statusErr youtube.ErrUnexpectedStatusCode
	if errors.As(err, &statusErr) {
		return int(statusErr) == code
	}
	return false
}
