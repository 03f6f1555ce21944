package markup

// Fallback is the canned sequence diagram served when the model cannot run.
const Fallback = `@startuml
actor "Front Desk Staff" as FDS
actor Patient as P
participant "Healthcare System" as HS

FDS -> P: Welcomes patient and requests information
activate FDS
activate P
P --> FDS: Provides basic information
deactivate P
FDS -> HS: Enters patient's information
activate HS
HS --> FDS: Validates information
deactivate HS
FDS -> FDS: Corrects information if necessary
FDS -> HS: Generates unique patient identification number
activate HS
HS --> FDS: Provides identification number
deactivate HS
FDS -> P: Provides registration documents and instructions
activate P
P --> FDS: Thanks and proceeds accordingly
deactivate P
deactivate FDS

alt Existing patient information
FDS -> HS: Alerts patient about existing record
activate HS
HS --> FDS: Instructions for updating existing record
deactivate HS

alt Technical issues
FDS -> FDS: Informs patient about technical issue
FDS -> FDS: Records information manually
FDS -> HS: Transfers manually recorded information
activate HS
HS --> FDS: Confirmation of transferred information
deactivate HS

@enduml`
