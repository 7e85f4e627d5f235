package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileAppender writes the same lines as a ConsoleAppender to a log file that is rotated by size.
type FileAppender struct {
	ConsoleAppender
	file *lumberjack.Logger
}

// NewFileAppender creates an appender for filename. The file is opened on the first write and
// rotated once it reaches maxSizeMB megabytes, keeping at most maxBackups old files.
func NewFileAppender(filename string, maxSizeMB, maxBackups int) *FileAppender {
	file := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return &FileAppender{ConsoleAppender: NewWriterAppender(file), file: file}
}

// Close closes the current log file. Later writes reopen it.
func (fa *FileAppender) Close() error {
	return fa.file.Close()
}
