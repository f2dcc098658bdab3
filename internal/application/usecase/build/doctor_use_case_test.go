package build

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/westward-dev/westward/internal/application/port/output"
)

func (f *buildFixture) doctor() *DoctorUseCase {
	return NewDoctorUseCase(f.repo, f.runner, f.config())
}

func versionAnswers(ctx context.Context, cmd output.Command) (*output.Result, error) {
	switch cmd.Bin {
	case "west":
		return &output.Result{Stdout: "West version: v1.2.0\n"}, nil
	case "python3":
		return &output.Result{Stdout: "Python 3.11.9\n"}, nil
	case "git":
		return &output.Result{Stdout: "git version 2.43.0\n"}, nil
	case "cmake":
		return &output.Result{Stdout: "cmake version 3.28.3\n\nCMake suite maintained by Kitware\n"}, nil
	case "ninja":
		return &output.Result{Stdout: "1.11.1\n"}, nil
	}
	return &output.Result{}, nil
}

func TestDoctorUseCase_AllHealthy(t *testing.T) {
	f := newBuildFixture(t)
	f.runner.RunFunc = versionAnswers

	out, err := f.doctor().Execute(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Healthy)
	assert.True(t, out.StateOK)
	assert.Equal(t, "uninitialized", out.Stage)

	require.Len(t, out.Checks, 5)
	names := make([]string, 0, len(out.Checks))
	for _, check := range out.Checks {
		names = append(names, check.Name)
		assert.True(t, check.OK, "%s should be healthy", check.Name)
		assert.NotEmpty(t, check.Path)
	}
	assert.Equal(t, []string{"west", "python3", "git", "cmake", "ninja"}, names)
	assert.Equal(t, "West version: v1.2.0", out.Checks[0].Version)
	assert.Equal(t, "cmake version 3.28.3", out.Checks[3].Version, "only the first line is reported")
}

func TestDoctorUseCase_MissingToolIsUnhealthy(t *testing.T) {
	f := newBuildFixture(t)
	f.runner.RunFunc = versionAnswers
	f.runner.LookPathFunc = func(bin string) (string, error) {
		if bin == "ninja" {
			return "", errors.New("executable file not found in $PATH")
		}
		return bin, nil
	}

	out, err := f.doctor().Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Healthy)
	for _, check := range out.Checks {
		if check.Name == "ninja" {
			assert.False(t, check.OK)
			assert.Equal(t, "not found on PATH", check.Detail)
		} else {
			assert.True(t, check.OK)
		}
	}
}

func TestDoctorUseCase_VersionProbeFailureIsUnhealthy(t *testing.T) {
	f := newBuildFixture(t)
	f.runner.RunFunc = func(ctx context.Context, cmd output.Command) (*output.Result, error) {
		if cmd.Bin == "cmake" {
			return &output.Result{ExitCode: 1}, nil
		}
		return versionAnswers(ctx, cmd)
	}

	out, err := f.doctor().Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, out.Healthy)
	for _, check := range out.Checks {
		if check.Name == "cmake" {
			assert.False(t, check.OK)
			assert.Equal(t, "did not report a version", check.Detail)
		}
	}
}

func TestDoctorUseCase_CorruptStateIsSurfaced(t *testing.T) {
	f := newBuildFixture(t)
	f.runner.RunFunc = versionAnswers
	statePath := filepath.Join(f.root, ".westward", "workspace.yaml")
	require.NoError(t, afero.WriteFile(f.fs, statePath, []byte("{unbalanced"), 0644))

	out, err := f.doctor().Execute(context.Background())
	require.NoError(t, err)

	assert.False(t, out.StateOK)
	assert.False(t, out.Healthy)
	assert.Empty(t, out.Stage)
}
