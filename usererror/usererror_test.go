package usererror_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fedsign/fedsign/usererror"
)

func TestUserErrorGiveCorrectString(t *testing.T) {
	//GIVEN internal and userfacing error details
	secretDetails := "Very hush hush info"
	internalErr := errors.New(secretDetails)
	publicDetails := "Please contact support with ID 123"

	//WHEN we create a user error out of it
	ue := usererror.New(internalErr, publicDetails)

	//THEN it should be user facing
	if !usererror.IsUserFacing(ue) {
		t.Error("Error was not user facing")
	}
	//THEN it should result in the user facing details
	if publicDetails != ue.Error() {
		t.Errorf("Error did not return correct info got %s, expected %s", ue.Error(), publicDetails)
	}
}

func TestWrappedUserErrorGiveCorrectString(t *testing.T) {
	//GIVEN internal and userfacing error details in a user error
	secretDetails := "Very hush hush info"
	internalErr := errors.New(secretDetails)
	publicDetails := "Please contact support with ID 123"
	ue := usererror.New(internalErr, publicDetails)

	//WHEN we wrap the user error
	wrappedErr := fmt.Errorf("while processing secret info xabc we encountered error: %w", ue)

	//THEN the wrapped error is not a user facing error
	if usererror.IsUserFacing(wrappedErr) {
		t.Error("Wrapped error was userfacing but it shouldn't have been")
	}

	//WHEN we use the Get method
	gottenError := usererror.Get(wrappedErr)

	//THEN the retrieved error is user facing
	if !usererror.IsUserFacing(gottenError) {
		t.Error("Error was not user facing")
	}
	//THEN it should result in the user facing details
	if publicDetails != gottenError.Error() {
		t.Errorf("Error did not return correct info got %s, expected %s", ue.Error(), publicDetails)
	}
}

func TestWrappedUserErrorCanStillLogInternalInfoWhenFlattened(t *testing.T) {
	//GIVEN internal and userfacing error details in a user error
	secretDetails := "Very hush hush info"
	internalErr := errors.New(secretDetails)
	publicDetails := "Please contact support with ID 123"
	ue := usererror.New(internalErr, publicDetails)

	//WHEN we get the flat string representation
	errStr := usererror.AsFlatSensitiveString(ue)

	//THEN flat internal error string should contain the secret info
	if !strings.Contains(errStr, secretDetails) {
		t.Errorf("flat internal error did not contain secret info")
	}

	//THEN the flat internal error string should have the public parts
	if !strings.Contains(errStr, publicDetails) {
		t.Errorf("flat internal error did not contain public details")
	}
}

func TestNormalErrorWorksFineWhenFlattened(t *testing.T) {
	//GIVEN a normal error
	errString := "error"
	e := errors.New(errString)

	//WHEN we get the flat string representation
	flattenedErrStr := usererror.AsFlatSensitiveString(e)

	//THEN we expect it to contain the error str
	if !strings.Contains(flattenedErrStr, errString) {
		t.Errorf("flat error did not contain original error string")
	}
}

func TestNilInputForErrorFlatteningShouldNotPanic(t *testing.T) {
	//WHEN we get the flat string representation of nil
	usererror.AsFlatSensitiveString(nil)

	//THEN we do not panic but remain calm
}

func TestGetUserErrorIsSafeOnAllError(t *testing.T) {
	//GIVEN internal error details
	secretDetails := "Very hush hush info"
	internalErr := errors.New(secretDetails)

	//WHEN getting userfacing error from that
	ue := usererror.Get(internalErr)

	//THEN we do not divulge the secret information
	if ue != nil {
		t.Error("Got a user facing error but that should not have been possible", "usererror", ue)
	}
}

func TestGetUserErrorIsSafeOnNil(t *testing.T) {
	//GIVEN an error that is actually nil
	var err = func() error {
		return nil
	}()

	//WHEN getting userfacing error from that
	ue := usererror.Get(err)

	//THEN we did not panic and got nil again
	if ue != nil {
		t.Error("Got a user facing error but that should not have been possible", "usererror", ue)
	}
}
